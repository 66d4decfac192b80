// Package binstore talks to the server that holds encrypted secrets.
//
// The server is untrusted: it only ever receives the base64 ciphertext and a
// flag saying whether a password layer is present. Key material never passes
// through this package.
//
// Two implementations are provided. HTTPStore speaks the aha-secret web
// protocol (session cookie, authenticity token scraped from the HTML page,
// form POST to create a bin, PATCH to reveal it). MemoryStore keeps bins in
// process and is used by tests and dry runs.
package binstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

// Bin is a stored secret as seen by the client.
type Bin struct {
	ID               string
	URL              string
	Payload          string
	HasPassword      bool
	RetentionMinutes uint32
}

// Store creates and reveals bins. Fetch is destructive on servers that burn a
// bin after the first reveal.
type Store interface {
	Store(ctx context.Context, payload string, hasPassword bool, retentionMinutes uint32) (*Bin, error)
	Fetch(ctx context.Context, lookupURL string) (*Bin, error)
}

// binURL returns the resource url of bin id below baseURL.
func binURL(baseURL, id string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: invalid server url %q", kerrors.ErrParse, baseURL)
	}
	return (&url.URL{
		Scheme: u.Scheme,
		User:   u.User,
		Host:   u.Host,
		Path:   strings.TrimRight(u.Path, "/") + "/bins/" + id,
	}).String(), nil
}
