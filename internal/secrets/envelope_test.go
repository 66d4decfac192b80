package secrets

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahasecret/ahasecret/internal/codec"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func TestSealPlain(t *testing.T) {
	sealed, err := Sealer{}.Seal([]byte("hello world"), nil)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if sealed.HasPassword {
		t.Error("Expected HasPassword to be false")
	}
	if len(sealed.Key) != KeySize || len(sealed.Nonce) != NonceSize {
		t.Fatalf("Unexpected key/nonce lengths %d/%d", len(sealed.Key), len(sealed.Nonce))
	}

	unlocker, err := Open(sealed.Key, sealed.Nonce, sealed.Payload, sealed.HasPassword)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if unlocker.State().NeedPassword {
		t.Error("Plain secret should not need a password")
	}
	plaintext, ok := unlocker.Plaintext()
	if !ok || string(plaintext) != "hello world" {
		t.Errorf("Expected %q, got %q (ok=%t)", "hello world", plaintext, ok)
	}
}

func TestSealWithPassword(t *testing.T) {
	sealed, err := Sealer{}.Seal([]byte("hello world"), []byte("s3cr3t"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !sealed.HasPassword {
		t.Fatal("Expected HasPassword to be true")
	}

	// The outer layer must decrypt to the password envelope JSON.
	ciphertext, err := codec.DecodeStd(sealed.Payload)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := Decrypt(sealed.Key, sealed.Nonce, ciphertext)
	if err != nil {
		t.Fatalf("Outer decrypt failed: %v", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(outer, &fields); err != nil {
		t.Fatalf("Outer plaintext is not JSON: %v", err)
	}
	for _, name := range []string{"salt", "iv", "cipher"} {
		if fields[name] == "" {
			t.Errorf("Envelope JSON is missing %q: %s", name, outer)
		}
	}
	if bytes.Contains(outer, []byte("hello world")) {
		t.Error("Envelope JSON leaks the plaintext")
	}

	unlocker, err := Open(sealed.Key, sealed.Nonce, sealed.Payload, true)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !unlocker.State().NeedPassword {
		t.Fatal("Expected password to be needed")
	}

	plaintext, err := unlocker.TryPassword([]byte("wrong"))
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	if plaintext != nil {
		t.Error("Wrong password returned plaintext")
	}
	state := unlocker.State()
	if !state.NeedPassword || !state.LastAttemptFailed || state.Attempts != 1 {
		t.Errorf("Unexpected state after wrong password: %+v", state)
	}
	if _, ok := unlocker.Plaintext(); ok {
		t.Error("Plaintext available before unlocking")
	}

	plaintext, err = unlocker.TryPassword([]byte("s3cr3t"))
	if err != nil {
		t.Fatalf("TryPassword failed with correct password: %v", err)
	}
	if string(plaintext) != "hello world" {
		t.Errorf("Expected %q, got %q", "hello world", plaintext)
	}
	state = unlocker.State()
	if state.NeedPassword || state.LastAttemptFailed || state.Attempts != 2 {
		t.Errorf("Unexpected state after correct password: %+v", state)
	}
}

func TestSealIsReproducibleWithInjectedRandomness(t *testing.T) {
	first, err := Sealer{Rand: &counterReader{}}.Seal([]byte("hello world"), []byte("s3cr3t"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Sealer{Rand: &counterReader{}}.Seal([]byte("hello world"), []byte("s3cr3t"))
	if err != nil {
		t.Fatal(err)
	}
	if first.Payload != second.Payload || !bytes.Equal(first.Key, second.Key) {
		t.Error("Expected identical output for identical randomness")
	}
}

func TestSealDrawsIndependentOuterAndInnerNonces(t *testing.T) {
	sealed, err := Sealer{}.Seal([]byte("hello world"), []byte("s3cr3t"))
	if err != nil {
		t.Fatal(err)
	}
	ciphertext, _ := codec.DecodeStd(sealed.Payload)
	outer, err := Decrypt(sealed.Key, sealed.Nonce, ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	envelope, err := ParsePasswordEnvelope(outer)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(envelope.IV, sealed.Nonce) {
		t.Error("Inner and outer nonce must be drawn independently")
	}
	if len(envelope.Salt) != SaltSize {
		t.Errorf("Expected %d byte salt, got %d", SaltSize, len(envelope.Salt))
	}
}

func TestOpenErrors(t *testing.T) {
	sealed, err := Sealer{}.Seal([]byte("hello world"), nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("MalformedPayload", func(t *testing.T) {
		_, err := Open(sealed.Key, sealed.Nonce, "%%%", false)
		if !errors.Is(err, kerrors.ErrDecode) {
			t.Errorf("Expected ErrDecode, got %v", err)
		}
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		ciphertext, _ := codec.DecodeStd(sealed.Payload)
		ciphertext[0] ^= 0x80
		_, err := Open(sealed.Key, sealed.Nonce, codec.EncodeStd(ciphertext), false)
		if !errors.Is(err, kerrors.ErrAuthentication) {
			t.Errorf("Expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("PasswordFlagOnPlainPayload", func(t *testing.T) {
		_, err := Open(sealed.Key, sealed.Nonce, sealed.Payload, true)
		if !errors.Is(err, kerrors.ErrDecode) {
			t.Errorf("Expected ErrDecode, got %v", err)
		}
	})
}

func TestParsePasswordEnvelope(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotJSON", "hello world"},
		{"MissingCipher", `{"salt":"AAAA","iv":"AAAA"}`},
		{"BadBase64", `{"salt":"AAAA","iv":"AAAA","cipher":"!!"}`},
		{"WrongTypes", `{"salt":1,"iv":2,"cipher":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePasswordEnvelope([]byte(tt.input))
			if !errors.Is(err, kerrors.ErrDecode) {
				t.Errorf("Expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestPasswordEnvelopeJSONFormat(t *testing.T) {
	envelope := &PasswordEnvelope{
		Salt:   []byte{0xfb, 0xff},
		IV:     []byte{0x01},
		Cipher: []byte("abc"),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"salt":"+/8=","iv":"AQ==","cipher":"YWJj"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	parsed, err := ParsePasswordEnvelope(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsed.Salt, envelope.Salt) || !bytes.Equal(parsed.Cipher, envelope.Cipher) {
		t.Errorf("Unexpected parsed envelope: %+v", parsed)
	}
}
