// Package codec converts binary values to the text forms used on the wire.
//
// Two alphabets are in use. Values stored on the server and inside the
// password envelope JSON use standard base64 with padding. Values embedded in
// a share link fragment use the URL-safe alphabet without padding, so that
// '+', '/' and '=' never have to survive a browser, a chat client or a shell.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

// EncodeStd encodes data with the standard base64 alphabet and padding.
func EncodeStd(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeStd decodes standard base64. Surrounding whitespace is ignored.
func DecodeStd(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	return data, nil
}

// EncodeURLSafe encodes data with the URL-safe alphabet and no padding.
func EncodeURLSafe(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeURLSafe decodes a value taken from a share link.
//
// Links are often copied through shells that escape characters with
// backslashes, and older links carry the standard alphabet with padding.
// Both are normalized before decoding.
func DecodeURLSafe(s string) ([]byte, error) {
	s = CleanURLSafe(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", kerrors.ErrDecode)
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	return data, nil
}

// CleanURLSafe strips backslashes, whitespace and padding and maps the
// standard alphabet onto the URL-safe one.
func CleanURLSafe(s string) string {
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "=")
	s = strings.ReplaceAll(s, "+", "-")
	return strings.ReplaceAll(s, "/", "_")
}
