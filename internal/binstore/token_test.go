package binstore

import (
	"errors"
	"strings"
	"testing"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected string
	}{
		{"MetaAuthenticityToken", `<html><head><meta name="authenticity_token" content="abc123"></head></html>`, "abc123"},
		{"MetaCSRFToken", `<head><meta name="csrf-param" content="authenticity_token"><meta name="csrf-token" content="xyz"/></head>`, "xyz"},
		{"HiddenInput", `<form><input type="hidden" name="authenticity_token" value=" tok "></form>`, "tok"},
		{"FirstWins", `<meta name="authenticity_token" content="one"><meta name="authenticity_token" content="two">`, "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractToken(strings.NewReader(tt.document))
			if err != nil {
				t.Fatalf("extractToken failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExtractTokenMissing(t *testing.T) {
	documents := []string{
		"",
		`<html><head><meta name="description" content="nothing here"></head></html>`,
		`<meta name="authenticity_token" content="">`,
	}

	for _, document := range documents {
		if _, err := extractToken(strings.NewReader(document)); !errors.Is(err, kerrors.ErrTokenNotFound) {
			t.Errorf("Expected ErrTokenNotFound for %q, got %v", document, err)
		}
	}
}
