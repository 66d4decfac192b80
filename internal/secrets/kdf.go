package secrets

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2Iterations is a fixed protocol constant. It is not stored in the
// password envelope, so both sides must agree on it and changing it makes
// every previously stored password-protected secret undecryptable.
const PBKDF2Iterations = 100000

// SaltSize is the length of the random salt in a password envelope.
const SaltSize = 16

// DeriveKey turns a password and salt into an AES-256 key with
// PBKDF2-HMAC-SHA256.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, PBKDF2Iterations, KeySize, sha256.New)
}

// GenerateSalt reads a new salt from r, or from crypto/rand if r is nil.
func GenerateSalt(r io.Reader) ([]byte, error) {
	salt, err := randomBytes(r, SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
