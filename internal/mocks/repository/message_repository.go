package repository

import (
	"context"
	"testing"

	"tracker/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository is a testify mock for repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// NewMockMessageRepository creates a mock wired to the test lifecycle.
func NewMockMessageRepository(t *testing.T) *MockMessageRepository {
	m := &MockMessageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	args := m.Called(ctx, message)

	return args.Error(0)
}

func (m *MockMessageRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Message), args.Error(1)
}
