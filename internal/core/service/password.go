package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares a supplied password against a stored one. The
// strategy is injected so the legacy plaintext comparison can be swapped for
// real hashing without touching the Authenticator's control flow.
type PasswordVerifier interface {
	Verify(stored, supplied string) bool
}

// PlaintextVerifier reproduces the legacy behavior: stored passwords are
// plain strings compared for equality. Known weakness, kept deliberately
// until the remote table is migrated to hashes.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptVerifier is the hardening replacement: stored values are bcrypt
// hashes. Drop-in once the clients table carries hashes instead of plaintext.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
