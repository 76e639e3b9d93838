// Package entity contains the core business objects of the tracker,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core identity record of the system. It is the single source of
// truth for the password epoch: access tokens and sessions only ever reference
// PasswordChangedAt, they never cache it authoritatively beyond one request.
type User struct {
	ID                int64     // Numeric identifier, assigned by the database sequence.
	Login             string    // Unique login used for authentication.
	FullName          string    // Unique display name.
	PasswordHash      string    // Salted bcrypt hash of the password.
	Description       string    // Free-form profile description.
	AvatarPath        string    // Path to the stored avatar image.
	Role              Role      // Access role; defaults to RoleGuest at signup.
	Referred          bool      // Whether the signup was attributed to a referrer.
	CreatedAt         time.Time // Timestamp of account creation.
	PasswordChangedAt time.Time // Password epoch; strictly increases on every change.
	UpdatedAt         time.Time // Timestamp of the last modification.
}

// PasswordEpoch returns the password epoch in the resolution embedded into
// access tokens. Millisecond precision survives a JSON number round trip,
// nanoseconds would not.
func (u *User) PasswordEpoch() int64 {
	return u.PasswordChangedAt.UnixMilli()
}
