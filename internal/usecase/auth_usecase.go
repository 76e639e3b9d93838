// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"tracker/internal/domain/entity"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new user.
type SignUpInput struct {
	FullName       string
	Login          string
	Password       string
	PasswordRepeat string
	// ReferralToken is an optional encrypted referrer ID. A bad token never
	// fails the signup.
	ReferralToken string
}

// SignInInput defines the data required for a user to log in.
type SignInInput struct {
	Login    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// --- Output DTOs ---

// CredentialsOutput carries the full credential pair issued after signup,
// signin or refresh.
type CredentialsOutput struct {
	User *entity.User
	// AccessToken is the short-lived bearer token.
	AccessToken string
	// SessionHandle is the long-lived opaque handle; the server stores only
	// its digest.
	SessionHandle string
	// SessionTTL is how long the session handle stays valid.
	SessionTTL time.Duration
	// AccessTokenTTL is how long the access token stays valid.
	AccessTokenTTL time.Duration
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// SignUp registers a new user and issues a first credential pair.
	SignUp(ctx context.Context, input SignUpInput) (*CredentialsOutput, error)

	// SignIn verifies a login/password pair and issues a credential pair.
	SignIn(ctx context.Context, input SignInInput) (*CredentialsOutput, error)

	// Refresh atomically rotates a session handle and mints a new access
	// token. The presented handle is dead afterwards, whether or not the
	// rotation succeeded.
	Refresh(ctx context.Context, sessionHandle string) (*CredentialsOutput, error)

	// Logout revokes the presented session handle. Unknown handles are not
	// an error.
	Logout(ctx context.Context, sessionHandle string) error

	// ResolveIdentity authenticates a request from its access token and
	// session handle and returns the live user record.
	ResolveIdentity(ctx context.Context, accessToken, sessionHandle string) (*entity.User, error)

	// ChangePassword verifies the old password, installs the new one and
	// revokes every session of the user.
	ChangePassword(ctx context.Context, userID int64, input ChangePasswordInput) error
}
