package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the revocable half of the authentication pair. The raw opaque
// handle is only ever held by the client; the registry stores its hash.
// A session maps to exactly one user and, once deleted, is never resurrected.
type Session struct {
	ID        uuid.UUID
	UserID    int64
	TokenHash string // SHA-256 of the opaque handle.
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the session has not yet expired at the given instant.
func (s *Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// SessionInfo is the client-facing view of an active session.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}
