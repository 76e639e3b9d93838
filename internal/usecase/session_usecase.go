package usecase

import (
	"context"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for managing a user's device sessions.
type SessionUsecase interface {
	// List retrieves the actor's active sessions.
	List(ctx context.Context, userID int64) ([]*entity.SessionInfo, error)

	// Revoke terminates one of the actor's sessions by ID. Admins may revoke
	// any session.
	Revoke(ctx context.Context, actor *entity.User, sessionID uuid.UUID) error

	// RevokeAll terminates every session of the user.
	RevokeAll(ctx context.Context, userID int64) error

	// CleanupExpired removes expired sessions and reports how many went away.
	CleanupExpired(ctx context.Context) (int, error)
}
