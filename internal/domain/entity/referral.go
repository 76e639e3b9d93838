package entity

import "time"

// Referral attributes a signup to the user whose encrypted identifier was
// carried in the referral token.
type Referral struct {
	ID         int64
	ReferrerID int64 // User who issued the referral link.
	ReferredID int64 // User created through that link.
	CreatedAt  time.Time
}
