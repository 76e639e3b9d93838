package impl

import (
	"context"
	"testing"
	"time"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	mockRepo "tracker/internal/mocks/repository"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestSessionService(t *testing.T) (usecase.SessionUsecase, *mockRepo.MockSessionRepository) {
	sessionRepo := mockRepo.NewMockSessionRepository(t)

	svc := NewSessionService(SessionServiceParams{
		TxManager:   &fakeTxManager{factory: &fakeRepoFactory{sessionRepo: sessionRepo}},
		SessionRepo: sessionRepo,
		Logger:      newDiscardLogger(),
	})

	return svc, sessionRepo
}

func TestSessionService_List(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	now := time.Now()
	sessions := []*entity.Session{
		{ID: uuid.New(), UserID: 7, ExpiresAt: now.Add(time.Hour)},
		{ID: uuid.New(), UserID: 7, ExpiresAt: now.Add(-time.Hour)},
	}
	sessionRepo.On("FindByUserID", mock.Anything, int64(7)).Return(sessions, nil)

	infos, err := svc.List(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.True(t, infos[0].IsActive)
	assert.False(t, infos[1].IsActive)
}

func TestSessionService_Revoke_OwnSession(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionID := uuid.New()
	session := &entity.Session{ID: sessionID, UserID: 5}

	sessionRepo.On("FindByID", mock.Anything, sessionID).Return(session, nil)
	sessionRepo.On("DeleteByID", mock.Anything, sessionID).Return(nil)

	assert.NoError(t, svc.Revoke(context.Background(), memberUser(5), sessionID))
}

func TestSessionService_Revoke_ForeignSessionRefused(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionID := uuid.New()
	session := &entity.Session{ID: sessionID, UserID: 99}

	sessionRepo.On("FindByID", mock.Anything, sessionID).Return(session, nil)

	err := svc.Revoke(context.Background(), memberUser(5), sessionID)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	sessionRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestSessionService_Revoke_AdminRevokesAnySession(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionID := uuid.New()
	session := &entity.Session{ID: sessionID, UserID: 99}

	sessionRepo.On("FindByID", mock.Anything, sessionID).Return(session, nil)
	sessionRepo.On("DeleteByID", mock.Anything, sessionID).Return(nil)

	assert.NoError(t, svc.Revoke(context.Background(), adminUser(1), sessionID))
}

func TestSessionService_Revoke_UnknownSession(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionID := uuid.New()
	sessionRepo.On("FindByID", mock.Anything, sessionID).Return(nil, repository.ErrSessionNotFound)

	err := svc.Revoke(context.Background(), memberUser(5), sessionID)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSessionService_RevokeAll(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionRepo.On("DeleteByUserID", mock.Anything, int64(7)).Return(nil)

	assert.NoError(t, svc.RevokeAll(context.Background(), 7))
}

func TestSessionService_CleanupExpired(t *testing.T) {
	svc, sessionRepo := createTestSessionService(t)

	sessionRepo.On("DeleteExpired", mock.Anything).Return(3, nil)

	removed, err := svc.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}
