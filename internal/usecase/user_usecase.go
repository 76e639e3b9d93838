package usecase

import (
	"context"

	"tracker/internal/domain/entity"
)

// UpdateProfileInput defines the self-service profile fields. Nil pointers
// leave the field untouched.
type UpdateProfileInput struct {
	FullName    *string
	Description *string
	AvatarPath  *string
}

// AdminUpdateUserInput defines the fields an admin may set on any user.
type AdminUpdateUserInput struct {
	FullName    *string
	Description *string
	AvatarPath  *string
	Role        *string
}

// UserUsecase defines the interface for user-related business operations.
type UserUsecase interface {
	// GetByID retrieves a user's public record.
	GetByID(ctx context.Context, id int64) (*entity.User, error)

	// List retrieves all users.
	List(ctx context.Context) ([]*entity.User, error)

	// UpdateProfile lets a user edit their own profile.
	UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*entity.User, error)

	// AdminUpdateUser lets an admin edit any user, including their role.
	AdminUpdateUser(ctx context.Context, actor *entity.User, targetID int64, input AdminUpdateUserInput) (*entity.User, error)

	// ReferralToken returns the user's shareable referral token.
	ReferralToken(ctx context.Context, userID int64) (string, error)
}
