package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"

	"tracker/internal/domain/service"
)

// handleByteLength is the entropy of a session handle before encoding.
const handleByteLength = 32

// randomTokenSource generates session handles from the OS entropy pool.
// Handles are stored only as SHA-256 digests, so a leaked database dump
// cannot be replayed against the API.
type randomTokenSource struct{}

// NewSessionTokenSource is the constructor for randomTokenSource.
func NewSessionTokenSource() service.SessionTokenSource {
	return &randomTokenSource{}
}

// NewHandle returns a fresh random handle and its storage digest.
func (s *randomTokenSource) NewHandle() (string, string, error) {
	raw := make([]byte, handleByteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", errors.Wrap(err, "read random bytes")
	}

	handle := base64.RawURLEncoding.EncodeToString(raw)

	return handle, s.HashHandle(handle), nil
}

// HashHandle recomputes the storage digest for a presented handle.
func (s *randomTokenSource) HashHandle(handle string) string {
	digest := sha256.Sum256([]byte(handle))

	return hex.EncodeToString(digest[:])
}
