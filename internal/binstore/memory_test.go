package binstore

import (
	"context"
	"errors"
	"testing"
	"time"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func TestMemoryStoreBurnsAfterRead(t *testing.T) {
	store := NewMemoryStore("https://secret.example.com")
	ctx := context.Background()

	bin, err := store.Store(ctx, "cGF5bG9hZA==", true, 60)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if bin.URL != "https://secret.example.com/bins/"+bin.ID {
		t.Errorf("Unexpected bin url %q", bin.URL)
	}
	if store.Len() != 1 {
		t.Fatalf("Expected 1 bin, got %d", store.Len())
	}

	fetched, err := store.Fetch(ctx, bin.URL+"/")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Payload != "cGF5bG9hZA==" || !fetched.HasPassword {
		t.Errorf("Unexpected fetched bin: %+v", fetched)
	}

	if _, err := store.Fetch(ctx, bin.URL); !errors.Is(err, kerrors.ErrBinNotFound) {
		t.Errorf("Expected ErrBinNotFound on second fetch, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d bins", store.Len())
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore("https://secret.example.com")
	store.Now = func() time.Time { return now }
	ctx := context.Background()

	expiring, err := store.Store(ctx, "YQ==", false, 5)
	if err != nil {
		t.Fatal(err)
	}
	forever, err := store.Store(ctx, "Yg==", false, 0)
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(5 * time.Minute)

	if _, err := store.Fetch(ctx, expiring.URL); !errors.Is(err, kerrors.ErrBinNotFound) {
		t.Errorf("Expected expired bin to be gone, got %v", err)
	}
	if _, err := store.Fetch(ctx, forever.URL); err != nil {
		t.Errorf("Expected bin without retention to survive, got %v", err)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemoryStore("https://secret.example.com").Store(ctx, "YQ==", false, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
