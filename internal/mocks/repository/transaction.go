// Package repository provides test doubles for the persistence interfaces.
package repository

import (
	"context"
	"testing"

	"tracker/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a testify mock for repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a mock wired to the test lifecycle.
func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)

	return args.Error(0)
}

// MockRepositoryFactory is a testify mock for repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

// NewMockRepositoryFactory creates a mock wired to the test lifecycle.
func NewMockRepositoryFactory(t *testing.T) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) UserRepo() repository.UserRepository {
	args := m.Called()

	return args.Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) SessionRepo() repository.SessionRepository {
	args := m.Called()

	return args.Get(0).(repository.SessionRepository)
}

func (m *MockRepositoryFactory) TaskRepo() repository.TaskRepository {
	args := m.Called()

	return args.Get(0).(repository.TaskRepository)
}

func (m *MockRepositoryFactory) ProjectRepo() repository.ProjectRepository {
	args := m.Called()

	return args.Get(0).(repository.ProjectRepository)
}

func (m *MockRepositoryFactory) MessageRepo() repository.MessageRepository {
	args := m.Called()

	return args.Get(0).(repository.MessageRepository)
}

func (m *MockRepositoryFactory) ReferralRepo() repository.ReferralRepository {
	args := m.Called()

	return args.Get(0).(repository.ReferralRepository)
}
