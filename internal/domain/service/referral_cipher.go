package service

import "github.com/pkg/errors"

// ErrReferralTokenInvalid is returned when a referral token cannot be
// decrypted or decoded. Callers treat it as "no referral", never as a
// signup failure.
var ErrReferralTokenInvalid = errors.New("referral token is invalid")

// ReferralCipher encrypts user identifiers into shareable referral tokens
// and recovers them on signup.
type ReferralCipher interface {
	// EncryptUserID produces an opaque referral token for the user.
	EncryptUserID(userID int64) (string, error)

	// DecryptUserID recovers the referrer's user ID from a token. Tampered
	// or garbled tokens yield ErrReferralTokenInvalid.
	DecryptUserID(token string) (int64, error)
}
