package repository

import (
	"context"
	"testing"

	"tracker/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockReferralRepository is a testify mock for repository.ReferralRepository.
type MockReferralRepository struct {
	mock.Mock
}

// NewMockReferralRepository creates a mock wired to the test lifecycle.
func NewMockReferralRepository(t *testing.T) *MockReferralRepository {
	m := &MockReferralRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entity.Referral) error {
	args := m.Called(ctx, referral)

	return args.Error(0)
}

func (m *MockReferralRepository) ListByReferrerID(ctx context.Context, referrerID int64) ([]*entity.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Referral), args.Error(1)
}
