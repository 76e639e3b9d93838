package service

// SessionTokenSource generates opaque session handles. Only the digest of a
// handle is ever persisted; the plaintext handle exists client-side only.
type SessionTokenSource interface {
	// NewHandle returns a fresh random handle and the digest to store for it.
	NewHandle() (handle string, hash string, err error)

	// HashHandle recomputes the storage digest for a presented handle.
	HashHandle(handle string) string
}
