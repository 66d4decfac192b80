package secrets

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ahasecret/ahasecret/internal/codec"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

// PasswordEnvelope is the inner layer of a password-protected secret. Its
// JSON form is the plaintext of the outer encryption.
type PasswordEnvelope struct {
	Salt   []byte
	IV     []byte
	Cipher []byte
}

type passwordEnvelopeJSON struct {
	Salt   string `json:"salt"`
	IV     string `json:"iv"`
	Cipher string `json:"cipher"`
}

// WrapWithPassword encrypts plaintext with a key derived from password and a
// fresh salt, under a fresh nonce.
func WrapWithPassword(r io.Reader, plaintext, password []byte) (*PasswordEnvelope, error) {
	salt, err := GenerateSalt(r)
	if err != nil {
		return nil, err
	}
	iv, err := GenerateNonce(r)
	if err != nil {
		return nil, err
	}
	ciphertext, err := Encrypt(DeriveKey(password, salt), iv, plaintext)
	if err != nil {
		return nil, err
	}
	return &PasswordEnvelope{Salt: salt, IV: iv, Cipher: ciphertext}, nil
}

// Unwrap derives the key from password and the stored salt and decrypts the
// inner ciphertext. A wrong password yields ErrAuthentication.
func (e *PasswordEnvelope) Unwrap(password []byte) ([]byte, error) {
	return Decrypt(DeriveKey(password, e.Salt), e.IV, e.Cipher)
}

// MarshalJSON encodes the envelope with standard base64 fields.
func (e *PasswordEnvelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(passwordEnvelopeJSON{
		Salt:   codec.EncodeStd(e.Salt),
		IV:     codec.EncodeStd(e.IV),
		Cipher: codec.EncodeStd(e.Cipher),
	})
}

// UnmarshalJSON decodes the envelope. Missing fields, malformed JSON and
// malformed base64 all yield ErrDecode.
func (e *PasswordEnvelope) UnmarshalJSON(data []byte) error {
	var raw passwordEnvelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: password envelope: %v", kerrors.ErrDecode, err)
	}
	if raw.Salt == "" || raw.IV == "" || raw.Cipher == "" {
		return fmt.Errorf("%w: password envelope is missing salt, iv or cipher", kerrors.ErrDecode)
	}

	salt, err := codec.DecodeStd(raw.Salt)
	if err != nil {
		return fmt.Errorf("decoding salt: %w", err)
	}
	iv, err := codec.DecodeStd(raw.IV)
	if err != nil {
		return fmt.Errorf("decoding iv: %w", err)
	}
	cipher, err := codec.DecodeStd(raw.Cipher)
	if err != nil {
		return fmt.Errorf("decoding cipher: %w", err)
	}

	e.Salt, e.IV, e.Cipher = salt, iv, cipher
	return nil
}

// ParsePasswordEnvelope decodes the JSON bytes recovered from the outer layer.
func ParsePasswordEnvelope(data []byte) (*PasswordEnvelope, error) {
	e := &PasswordEnvelope{}
	if err := e.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return e, nil
}

// Sealed is everything produced by sealing a secret. Payload and HasPassword
// go to the bin store; Key and Nonce go only into the share link.
type Sealed struct {
	Key         []byte
	Nonce       []byte
	Payload     string
	HasPassword bool
}

// Sealer encrypts secrets. Rand is the randomness source for keys, nonces and
// salts; nil means crypto/rand.
type Sealer struct {
	Rand io.Reader
}

// Seal encrypts plaintext under a fresh outer key and nonce. If password is
// not empty the plaintext is first wrapped in a PasswordEnvelope and the
// envelope's JSON becomes the outer plaintext.
func (s Sealer) Seal(plaintext, password []byte) (*Sealed, error) {
	inner := plaintext
	hasPassword := len(password) > 0

	if hasPassword {
		envelope, err := WrapWithPassword(s.Rand, plaintext, password)
		if err != nil {
			return nil, fmt.Errorf("wrapping with password: %w", err)
		}
		inner, err = json.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("encoding password envelope: %w", err)
		}
	}

	result, err := EncryptFresh(s.Rand, inner)
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Key:         result.Key,
		Nonce:       result.Nonce,
		Payload:     codec.EncodeStd(result.Ciphertext),
		HasPassword: hasPassword,
	}, nil
}

// Open decrypts the outer layer of a stored payload with the key and nonce
// from the share link. Every error here is fatal: the outer key comes from
// the link itself, so nothing the user types can fix it.
//
// The returned Unlocker already holds the plaintext when hasPassword is
// false. Otherwise it holds the parsed password envelope and waits for
// TryPassword.
func Open(key, nonce []byte, payload string, hasPassword bool) (*Unlocker, error) {
	ciphertext, err := codec.DecodeStd(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	plaintext, err := Decrypt(key, nonce, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting payload: %w", err)
	}

	if !hasPassword {
		return &Unlocker{plaintext: plaintext, unlocked: true}, nil
	}

	envelope, err := ParsePasswordEnvelope(plaintext)
	if err != nil {
		return nil, err
	}
	return &Unlocker{envelope: envelope}, nil
}
