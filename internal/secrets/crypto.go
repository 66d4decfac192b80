package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// NonceSize is the standard GCM nonce length in bytes.
	NonceSize = 12

	// TagSize is the GCM authentication tag length appended to every ciphertext.
	TagSize = 16
)

// EncryptionResult holds the output of one fresh encryption. Key and Nonce
// are single use and must not be persisted anywhere but the share link.
type EncryptionResult struct {
	Key        []byte
	Nonce      []byte
	Ciphertext []byte
}

// GenerateKey reads a new AES-256 key from r, or from crypto/rand if r is nil.
func GenerateKey(r io.Reader) ([]byte, error) {
	key, err := randomBytes(r, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// GenerateNonce reads a new GCM nonce from r, or from crypto/rand if r is nil.
func GenerateNonce(r io.Reader) ([]byte, error) {
	nonce, err := randomBytes(r, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// Encrypt seals plaintext with AES-256-GCM. The returned slice is the
// ciphertext with the tag appended. It is deterministic for fixed inputs.
func Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt. A wrong key, a wrong nonce
// or any modification of the ciphertext or tag yields ErrAuthentication.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// EncryptFresh generates a key and nonce together and encrypts plaintext
// with them. Both are drawn for every call so a nonce is never reused under
// the same key.
func EncryptFresh(r io.Reader, plaintext []byte) (*EncryptionResult, error) {
	key, err := GenerateKey(r)
	if err != nil {
		return nil, err
	}
	nonce, err := GenerateNonce(r)
	if err != nil {
		return nil, err
	}
	ciphertext, err := Encrypt(key, nonce, plaintext)
	if err != nil {
		return nil, err
	}
	return &EncryptionResult{Key: key, Nonce: nonce, Ciphertext: ciphertext}, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, expected %d", kerrors.ErrCryptoMisuse, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, expected %d", kerrors.ErrCryptoMisuse, len(nonce), NonceSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create aes block cipher: %v", kerrors.ErrCryptoMisuse, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create gcm cipher: %v", kerrors.ErrCryptoMisuse, err)
	}
	return gcm, nil
}

func randomBytes(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
