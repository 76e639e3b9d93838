package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"tracker/config"
	"tracker/internal/domain/repository"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: maxActiveSessions,
			AccessTokenTTL:    15 * time.Minute,
			SessionTTL:        time.Hour,
		},
	}
}

// fakeTxManager runs the callback directly against a fixed factory, so unit
// tests exercise the transactional code path without a database.
type fakeTxManager struct {
	factory repository.RepositoryFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

// fakeRepoFactory hands out whatever repositories the test wired in.
type fakeRepoFactory struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	messageRepo  repository.MessageRepository
	referralRepo repository.ReferralRepository
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository         { return f.userRepo }
func (f *fakeRepoFactory) SessionRepo() repository.SessionRepository   { return f.sessionRepo }
func (f *fakeRepoFactory) TaskRepo() repository.TaskRepository         { return f.taskRepo }
func (f *fakeRepoFactory) ProjectRepo() repository.ProjectRepository   { return f.projectRepo }
func (f *fakeRepoFactory) MessageRepo() repository.MessageRepository   { return f.messageRepo }
func (f *fakeRepoFactory) ReferralRepo() repository.ReferralRepository { return f.referralRepo }
