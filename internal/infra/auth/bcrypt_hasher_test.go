package auth

import (
	"context"
	"strings"
	"testing"

	"tracker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth:             &config.AuthConfig{BcryptCost: 10},
		PasswordStrength: &config.PasswordStrengthConfig{MinLength: 4, MaxLength: 20},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher()
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, hasher.Check(ctx, "correct horse", hash))
	assert.False(t, hasher.Check(ctx, "wrong horse", hash))
}

func TestBcryptHasher_HashesDiffer(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher()
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "same password")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "same password")
	require.NoError(t, err)

	// bcrypt salts every hash, so two hashes of the same input differ.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check(ctx, "same password", first))
	assert.True(t, hasher.Check(ctx, "same password", second))
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "whatever")
	assert.Error(t, err)
	assert.False(t, hasher.Check(ctx, "whatever", "$2a$10$invalid"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "minimum length", password: "abcd", wantErr: false},
		{name: "maximum length", password: strings.Repeat("a", 20), wantErr: false},
		{name: "too short", password: "abc", wantErr: true},
		{name: "too long", password: strings.Repeat("a", 21), wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
