package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func TestEncodeStd(t *testing.T) {
	got := EncodeStd([]byte{0xfb, 0xff, 0xfe})
	if got != "+//+" {
		t.Errorf("Expected %q, got %q", "+//+", got)
	}
}

func TestDecodeStdRejectsGarbage(t *testing.T) {
	_, err := DecodeStd("not base64!")
	if !errors.Is(err, kerrors.ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}
}

func TestEncodeURLSafeHasNoUnsafeCharacters(t *testing.T) {
	data := bytes.Repeat([]byte{0xfb, 0xff, 0xfe, 0x3e}, 8)
	got := EncodeURLSafe(data)
	if strings.ContainsAny(got, "+/=") {
		t.Errorf("Encoded value %q contains URL-unsafe characters", got)
	}
}

func TestDecodeURLSafe(t *testing.T) {
	original := []byte{0xfb, 0xff, 0xfe, 0x00, 0x01}

	tests := []struct {
		name  string
		input string
	}{
		{"Raw", EncodeURLSafe(original)},
		{"StandardAlphabetWithPadding", EncodeStd(original)},
		{"ShellEscaped", `-\/\/-AAE`},
		{"TrailingWhitespace", EncodeURLSafe(original) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeURLSafe(tt.input)
			if err != nil {
				t.Fatalf("DecodeURLSafe(%q) failed: %v", tt.input, err)
			}
			if !bytes.Equal(got, original) {
				t.Errorf("Expected %x, got %x", original, got)
			}
		})
	}
}

func TestDecodeURLSafeErrors(t *testing.T) {
	for _, input := range []string{"", `\\`, "a", "ab$d"} {
		if _, err := DecodeURLSafe(input); !errors.Is(err, kerrors.ErrDecode) {
			t.Errorf("DecodeURLSafe(%q): expected ErrDecode, got %v", input, err)
		}
	}
}
