// Package crypt implements symmetric encryption for referral tokens.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"

	"github.com/pkg/errors"

	"tracker/config"
	"tracker/internal/domain/service"
)

// aesReferralCipher encrypts user IDs into opaque referral tokens with
// AES-GCM. The nonce is prepended to the ciphertext, and the whole blob is
// base64url-encoded for use in URLs.
type aesReferralCipher struct {
	aead cipher.AEAD
}

// NewReferralCipher builds the cipher from the configured base64 key.
// The decoded key must be 16, 24 or 32 bytes.
func NewReferralCipher(cfg *config.Config) (service.ReferralCipher, error) {
	if cfg.Referral == nil || cfg.Referral.Key == "" {
		return nil, errors.New("referral key must be provided")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.Referral.Key)
	if err != nil {
		return nil, errors.Wrap(err, "decode referral key")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "create cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "create gcm")
	}

	return &aesReferralCipher{aead: aead}, nil
}

// EncryptUserID produces an opaque referral token for the user.
func (c *aesReferralCipher) EncryptUserID(userID int64) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "read nonce")
	}

	plaintext := make([]byte, 8)
	binary.BigEndian.PutUint64(plaintext, uint64(userID))

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptUserID recovers the referrer's user ID from a token. Any decoding
// or authentication failure yields service.ErrReferralTokenInvalid.
func (c *aesReferralCipher) DecryptUserID(token string) (int64, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, service.ErrReferralTokenInvalid
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return 0, service.ErrReferralTokenInvalid
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil || len(plaintext) != 8 {
		return 0, service.ErrReferralTokenInvalid
	}

	return int64(binary.BigEndian.Uint64(plaintext)), nil
}
