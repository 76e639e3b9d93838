package repository

import (
	"context"

	"tracker/internal/domain/entity"
)

// ReferralRepository defines the persistence operations for signup referrals.
type ReferralRepository interface {
	// Create persists a new referral attribution.
	Create(ctx context.Context, referral *entity.Referral) error

	// ListByReferrerID retrieves all referrals attributed to a user.
	ListByReferrerID(ctx context.Context, referrerID int64) ([]*entity.Referral, error)
}
