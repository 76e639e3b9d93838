package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "tracker/internal/delivery/context"
	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	txManager   repository.TransactionManager
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	SessionRepo repository.SessionRepository
	Logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		txManager:   params.TxManager,
		sessionRepo: params.SessionRepo,
		logger:      params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// List retrieves the user's active sessions. Handles are never exposed, only
// session metadata.
func (srv *sessionService) List(ctx context.Context, userID int64) ([]*entity.SessionInfo, error) {
	sessions, err := srv.sessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	now := time.Now()
	infos := make([]*entity.SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, &entity.SessionInfo{
			ID:        session.ID,
			UserID:    session.UserID,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
			IsActive:  session.Active(now),
		})
	}

	return infos, nil
}

// Revoke terminates one session by ID. Non-admins may only revoke their own.
func (srv *sessionService) Revoke(ctx context.Context, actor *entity.User, sessionID uuid.UUID) error {
	if actor == nil {
		return domainerrors.ErrInsufficientRole
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sessionRepo := repoFactory.SessionRepo()

		// Verify ownership before deleting.
		session, err := sessionRepo.FindByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to find session")
		}

		if session.UserID != actor.ID && actor.Role != entity.RoleAdmin {
			return domainerrors.ErrForbidden.WrapMessage("session does not belong to user")
		}

		if err := sessionRepo.DeleteByID(ctx, sessionID); err != nil {
			return errors.Wrap(err, "failed to delete session")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Session revocation failed", slog.String("sessionID", sessionID.String()), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Session revoked", slog.String("sessionID", sessionID.String()), slog.Int64("byUserID", actor.ID))

	return nil
}

// RevokeAll terminates every session of the user.
func (srv *sessionService) RevokeAll(ctx context.Context, userID int64) error {
	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to revoke all sessions", slog.Int64("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke all sessions")
	}

	srv.log(ctx).Info("All sessions revoked", slog.Int64("userID", userID))

	return nil
}

// CleanupExpired removes expired sessions and reports how many went away.
func (srv *sessionService) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := srv.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clean up expired sessions")
	}

	if removed > 0 {
		srv.log(ctx).Info("Expired sessions removed", slog.Int("count", removed))
	}

	return removed, nil
}
