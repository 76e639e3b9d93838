// Package service provides test doubles for the domain service interfaces.
package service

import (
	"context"
	"testing"
	"time"

	"tracker/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock for service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock wired to the test lifecycle.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(ctx context.Context, password, hash string) bool {
	args := m.Called(ctx, password, hash)

	return args.Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	args := m.Called(password)

	return args.Error(0)
}

// MockTokenService is a testify mock for service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock wired to the test lifecycle.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateAccessToken(userID int64, passwordChangedAt time.Time) (string, error) {
	args := m.Called(userID, passwordChangedAt)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.AccessClaims), args.Error(1)
}

func (m *MockTokenService) AccessTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockSessionTokenSource is a testify mock for service.SessionTokenSource.
type MockSessionTokenSource struct {
	mock.Mock
}

// NewMockSessionTokenSource creates a mock wired to the test lifecycle.
func NewMockSessionTokenSource(t *testing.T) *MockSessionTokenSource {
	m := &MockSessionTokenSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSessionTokenSource) NewHandle() (string, string, error) {
	args := m.Called()

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockSessionTokenSource) HashHandle(handle string) string {
	args := m.Called(handle)

	return args.String(0)
}

// MockReferralCipher is a testify mock for service.ReferralCipher.
type MockReferralCipher struct {
	mock.Mock
}

// NewMockReferralCipher creates a mock wired to the test lifecycle.
func NewMockReferralCipher(t *testing.T) *MockReferralCipher {
	m := &MockReferralCipher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockReferralCipher) EncryptUserID(userID int64) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *MockReferralCipher) DecryptUserID(token string) (int64, error) {
	args := m.Called(token)

	return args.Get(0).(int64), args.Error(1)
}
