package binstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"golang.org/x/net/publicsuffix"
)

// maxResponseSize bounds how much of a server response is read.
const maxResponseSize = 1 << 20

// HTTPStore is a Store backed by an aha-secret server.
type HTTPStore struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewHTTPStore returns a store for the server at baseURL. The client keeps a
// cookie jar because the authenticity token is bound to the session cookie.
func NewHTTPStore(baseURL, userAgent string, timeout time.Duration) (*HTTPStore, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPStore{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Client:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type createResponse struct {
	ID  flexibleID `json:"id"`
	URL string     `json:"url"`
}

type revealResponse struct {
	Payload     *string `json:"payload"`
	HasPassword bool    `json:"has_password"`
}

// flexibleID accepts both string and numeric ids.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

// Store uploads payload and returns the new bin's id and url.
func (s *HTTPStore) Store(ctx context.Context, payload string, hasPassword bool, retentionMinutes uint32) (*Bin, error) {
	token, err := s.fetchToken(ctx, s.BaseURL)
	if err != nil {
		return nil, err
	}

	createURL, err := url.JoinPath(s.BaseURL, "bins")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server url: %v", kerrors.ErrParse, err)
	}

	form := url.Values{}
	form.Set("authenticity_token", token)
	form.Set("bin[payload]", payload)
	form.Set("bin[has_password]", strconv.FormatBool(hasPassword))
	form.Set("bin[retention]", strconv.FormatUint(uint64(retentionMinutes), 10))

	req, err := s.newRequest(ctx, http.MethodPost, createURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storing secret: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: storing secret returned %s", kerrors.ErrUnexpectedResponse, resp.Status)
	}

	var created createResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading store response: %w", err)
	}
	_ = json.Unmarshal(body, &created)

	id := string(created.ID)
	if id == "" {
		// Servers without a JSON api redirect to the new bin's page.
		id = binIDFromPath(resp.Request.URL.Path)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no bin id in store response", kerrors.ErrUnexpectedResponse)
	}

	resourceURL, err := binURL(s.BaseURL, id)
	if err != nil {
		return nil, err
	}

	return &Bin{
		ID:               id,
		URL:              resourceURL,
		Payload:          payload,
		HasPassword:      hasPassword,
		RetentionMinutes: retentionMinutes,
	}, nil
}

// Fetch reveals the bin at lookupURL. On aha-secret the bin is destroyed by
// this call.
func (s *HTTPStore) Fetch(ctx context.Context, lookupURL string) (*Bin, error) {
	token, err := s.fetchToken(ctx, lookupURL)
	if err != nil {
		return nil, err
	}

	revealURL, err := url.Parse(strings.TrimRight(lookupURL, "/") + "/reveal")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrParse, err)
	}
	query := revealURL.Query()
	query.Set("authenticity_token", token)
	revealURL.RawQuery = query.Encode()

	req, err := s.newRequest(ctx, http.MethodPatch, revealURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-CSRF-Token", token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("revealing secret: %w", err)
	}
	defer resp.Body.Close()

	if err := checkFound(resp); err != nil {
		return nil, err
	}

	var revealed revealResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&revealed); err != nil {
		return nil, fmt.Errorf("%w: decoding reveal response: %v", kerrors.ErrUnexpectedResponse, err)
	}
	if revealed.Payload == nil {
		return nil, fmt.Errorf("%w: reveal response has no payload", kerrors.ErrUnexpectedResponse)
	}

	return &Bin{
		ID:          binIDFromPath(strings.TrimSuffix(revealURL.Path, "/reveal")),
		URL:         lookupURL,
		Payload:     *revealed.Payload,
		HasPassword: revealed.HasPassword,
	}, nil
}

// fetchToken loads pageURL, which also establishes the session cookie, and
// returns the authenticity token embedded in it.
func (s *HTTPStore) fetchToken(ctx context.Context, pageURL string) (string, error) {
	req, err := s.newRequest(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if err := checkFound(resp); err != nil {
		return "", err
	}

	token, err := extractToken(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", pageURL, err)
	}
	return token, nil
}

func (s *HTTPStore) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrParse, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func checkFound(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return kerrors.ErrBinNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s returned %s", kerrors.ErrUnexpectedResponse,
			resp.Request.Method, resp.Request.URL.Redacted(), resp.Status)
	}
	return nil
}

func binIDFromPath(p string) string {
	dir, id := path.Split(strings.TrimRight(p, "/"))
	if path.Base(dir) != "bins" {
		return ""
	}
	return id
}
