package auth

import (
	"testing"
	"time"

	"tracker/config"
	"tracker/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T, ttl time.Duration) service.TokenService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: ttl}

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, 15*time.Minute)
	changedAt := time.Now().Add(-time.Hour)

	token, err := svc.GenerateAccessToken(42, changedAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, changedAt.UnixMilli(), claims.PasswordEpoch)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(42, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_TamperedToken(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, 15*time.Minute)

	token, err := svc.GenerateAccessToken(42, time.Now())
	require.NoError(t, err)

	// Flip part of the signature.
	tampered := token[:len(token)-4] + "AAAA"

	_, err = svc.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, 15*time.Minute)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Access = "a-different-secret"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := other.GenerateAccessToken(42, time.Now())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_ExpiredAndTamperedReportsMalformed(t *testing.T) {
	t.Parallel()

	// A tampered token that is also past expiry must report as malformed,
	// never as expired, because signature verification comes first.
	expiredSvc := newTestJWTService(t, -time.Minute)

	token, err := expiredSvc.GenerateAccessToken(42, time.Now())
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"

	_, err = expiredSvc.ValidateAccessToken(tampered)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_Garbage(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "definitely-not-a-token"},
		{name: "two segments", token: "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, service.ErrTokenMalformed)
		})
	}
}

func TestJWTService_AccessTokenTTL(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, 42*time.Minute)
	assert.Equal(t, 42*time.Minute, svc.AccessTokenTTL())
}
