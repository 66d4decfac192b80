package binstore

import (
	"io"
	"strings"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"golang.org/x/net/html"
)

// tokenNames are the meta tag and form field names that carry the CSRF token.
var tokenNames = map[string]bool{
	"authenticity_token": true,
	"csrf-token":         true,
}

// extractToken scans an HTML document for the authenticity token. It looks at
// <meta name=... content=...> first and falls back to hidden form inputs.
func extractToken(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", kerrors.ErrTokenNotFound
			}
			return "", z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if token := tokenFrom(tok); token != "" {
				return token, nil
			}
		}
	}
}

func tokenFrom(tok html.Token) string {
	var name, value string
	switch tok.Data {
	case "meta":
		name, value = attr(tok, "name"), attr(tok, "content")
	case "input":
		name, value = attr(tok, "name"), attr(tok, "value")
	default:
		return ""
	}
	if !tokenNames[name] {
		return ""
	}
	return strings.TrimSpace(value)
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
