package repository

import (
	"context"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for session persistence.
var (
	// ErrSessionNotFound is returned when a session handle is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session handle has expired.
	ErrSessionExpired = errors.New("session has expired")
)

// SessionRepository is the session registry's handle table. It exclusively
// owns handle-to-user mappings; all mutations go through it.
type SessionRepository interface {
	// Create persists a new session, representing one device login.
	Create(ctx context.Context, session *entity.Session) error

	// FindByHash retrieves a session by the hash of its opaque handle.
	// Absent handles yield ErrSessionNotFound, expired ones ErrSessionExpired.
	FindByHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// FindByID retrieves a session by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)

	// FindByUserID retrieves all non-expired sessions for a user.
	FindByUserID(ctx context.Context, userID int64) ([]*entity.Session, error)

	// DeleteByHash removes a session by its handle hash. It returns
	// ErrSessionNotFound when no row was deleted, which is how a rotation
	// racing another rotation on the same handle observes that it lost.
	DeleteByHash(ctx context.Context, tokenHash string) error

	// DeleteByID removes a session by its ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes every session of a user, e.g. after a password change.
	DeleteByUserID(ctx context.Context, userID int64) error

	// DeleteExpired removes all expired sessions and reports how many were removed.
	DeleteExpired(ctx context.Context) (int, error)

	// CountActiveByUserID returns the number of non-expired sessions for a user.
	CountActiveByUserID(ctx context.Context, userID int64) (int, error)
}
