// Package service defines domain-level service interfaces whose
// implementations live in the infrastructure layer.
package service

import "context"

// PasswordHasher abstracts one-way password hashing so the rest of the
// application never sees plaintext comparison details.
type PasswordHasher interface {
	// Hash derives a salted hash from a plaintext password. It may block
	// waiting for a hashing slot, so it honors context cancellation.
	Hash(ctx context.Context, password string) (string, error)

	// Check reports whether the plaintext password matches the stored hash.
	Check(ctx context.Context, password, hash string) bool

	// ValidatePasswordStrength verifies a candidate password against the
	// configured strength rules before any hashing happens.
	ValidatePasswordStrength(password string) error
}
