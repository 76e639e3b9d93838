package service

import (
	"time"

	"github.com/pkg/errors"
)

// Sentinel errors for token validation. Callers distinguish a structurally
// bad token from a genuine but expired one, because they map to different
// HTTP statuses.
var (
	// ErrTokenMalformed is returned when a token fails parsing or
	// signature verification.
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	// ErrTokenExpired is returned when a well-signed token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// AccessClaims is the verified payload of an access token.
type AccessClaims struct {
	// UserID identifies the token subject.
	UserID int64
	// PasswordEpoch is the password generation the token was minted under,
	// in Unix milliseconds. Tokens from older generations are stale.
	PasswordEpoch int64
	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time
}

// TokenService mints and verifies short-lived access tokens.
type TokenService interface {
	// GenerateAccessToken creates a signed access token for the user,
	// stamped with the user's current password generation.
	GenerateAccessToken(userID int64, passwordChangedAt time.Time) (string, error)

	// ValidateAccessToken verifies the token signature first, then expiry.
	// It returns ErrTokenMalformed for signature or structure failures and
	// ErrTokenExpired for valid-but-expired tokens.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)

	// AccessTokenTTL returns the configured lifetime of access tokens.
	AccessTokenTTL() time.Duration
}
