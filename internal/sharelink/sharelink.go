// Package sharelink builds and parses the links that carry a secret's key
// material to the recipient.
//
// A share link has the form:
//
//	<base url>/bins/<bin id>#<url-safe key>&<url-safe nonce>
//
// Everything before '#' identifies the bin on the server. The fragment holds
// the decryption key and nonce and is never sent to the server by browsers or
// HTTP clients.
package sharelink

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ahasecret/ahasecret/internal/codec"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/ahasecret/ahasecret/internal/secrets"
)

// ShareReference is what a recipient recovers from a share link.
type ShareReference struct {
	Key          []byte
	Nonce        []byte
	BinID        string
	BinLookupURL string
}

// Build returns the share link for binID on the server at baseURL. Trailing
// slashes on the base are dropped and a query string on the base is kept.
func Build(baseURL, binID string, key, nonce []byte) (string, error) {
	u, err := parseHierarchical(baseURL)
	if err != nil {
		return "", err
	}
	if binID == "" {
		return "", fmt.Errorf("%w: empty bin id", kerrors.ErrParse)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/bins/" + binID
	u.RawPath = ""
	u.Fragment = ""
	u.RawFragment = ""

	return u.String() + "#" + codec.EncodeURLSafe(key) + "&" + codec.EncodeURLSafe(nonce), nil
}

// Parse extracts the key, nonce and bin lookup url from a share link.
//
// The fragment must split into exactly two '&' separated parts. Backslashes
// that shells insert when a link is copied are removed before parsing.
func Parse(rawURL string) (*ShareReference, error) {
	u, err := parseHierarchical(strings.ReplaceAll(rawURL, `\`, ""))
	if err != nil {
		return nil, err
	}

	parts := strings.Split(u.Fragment, "&")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: unable to parse key and nonce from url fragment", kerrors.ErrParse)
	}

	key, err := codec.DecodeURLSafe(parts[0])
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}
	if len(key) != secrets.KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, expected %d", kerrors.ErrParse, len(key), secrets.KeySize)
	}

	nonce, err := codec.DecodeURLSafe(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding nonce: %w", err)
	}
	if len(nonce) != secrets.NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, expected %d", kerrors.ErrParse, len(nonce), secrets.NonceSize)
	}

	lookup := LookupURL(u)
	binID := path.Base(lookup.Path)
	if binID == "/" || binID == "." {
		return nil, fmt.Errorf("%w: url has no bin path", kerrors.ErrParse)
	}

	return &ShareReference{
		Key:          key,
		Nonce:        nonce,
		BinID:        binID,
		BinLookupURL: lookup.String(),
	}, nil
}

// LookupURL returns u without query, fragment and trailing slash: the
// canonical resource path the bin store understands.
func LookupURL(u *url.URL) *url.URL {
	return &url.URL{
		Scheme:  u.Scheme,
		User:    u.User,
		Host:    u.Host,
		Path:    strings.TrimRight(u.Path, "/"),
		RawPath: strings.TrimRight(u.RawPath, "/"),
	}
}

func parseHierarchical(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrParse, err)
	}
	if u.Opaque != "" || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q cannot be a base url", kerrors.ErrParse, rawURL)
	}
	return u, nil
}

// ValidateBaseURL reports whether baseURL can carry share links.
func ValidateBaseURL(baseURL string) error {
	_, err := parseHierarchical(baseURL)
	return err
}
