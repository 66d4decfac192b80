package binstore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with burn-after-read and retention
// expiry. It is safe for concurrent use.
type MemoryStore struct {
	BaseURL string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu   sync.Mutex
	bins map[string]memoryBin
}

type memoryBin struct {
	bin       Bin
	expiresAt time.Time
}

// NewMemoryStore returns an empty store whose bins live below baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		BaseURL: baseURL,
		Now:     time.Now,
		bins:    make(map[string]memoryBin),
	}
}

// Store keeps payload for retentionMinutes. Zero means no expiry.
func (s *MemoryStore) Store(ctx context.Context, payload string, hasPassword bool, retentionMinutes uint32) (*Bin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	resourceURL, err := binURL(s.BaseURL, id)
	if err != nil {
		return nil, err
	}

	bin := Bin{
		ID:               id,
		URL:              resourceURL,
		Payload:          payload,
		HasPassword:      hasPassword,
		RetentionMinutes: retentionMinutes,
	}

	var expiresAt time.Time
	if retentionMinutes > 0 {
		expiresAt = s.now().Add(time.Duration(retentionMinutes) * time.Minute)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bins == nil {
		s.bins = make(map[string]memoryBin)
	}
	s.bins[id] = memoryBin{bin: bin, expiresAt: expiresAt}

	stored := bin
	return &stored, nil
}

// Fetch returns and deletes the bin at lookupURL.
func (s *MemoryStore) Fetch(ctx context.Context, lookupURL string) (*Bin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(lookupURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrParse, err)
	}
	id := path.Base(strings.TrimRight(u.Path, "/"))

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bins[id]
	if !ok {
		return nil, kerrors.ErrBinNotFound
	}
	delete(s.bins, id)

	if !stored.expiresAt.IsZero() && !s.now().Before(stored.expiresAt) {
		return nil, kerrors.ErrBinNotFound
	}

	bin := stored.bin
	return &bin, nil
}

// Len returns the number of bins held, including expired ones not yet fetched.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bins)
}

func (s *MemoryStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
