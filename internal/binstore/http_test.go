package binstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahasecret/ahasecret/internal/binstore/binstoretest"
	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

func newTestStore(t *testing.T, baseURL string) *HTTPStore {
	t.Helper()
	store, err := NewHTTPStore(baseURL, "ahasecret-test", 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPStore failed: %v", err)
	}
	return store
}

func TestHTTPStoreRoundTrip(t *testing.T) {
	server := binstoretest.NewServer()
	defer server.Close()

	store := newTestStore(t, server.URL)
	ctx := context.Background()

	bin, err := store.Store(ctx, "Y2lwaGVydGV4dA==", true, 60)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if bin.ID != "1" {
		t.Errorf("Expected id %q, got %q", "1", bin.ID)
	}
	if bin.URL != server.URL+"/bins/1" {
		t.Errorf("Expected url %q, got %q", server.URL+"/bins/1", bin.URL)
	}

	stored, ok := server.Bin("1")
	if !ok {
		t.Fatal("Server did not record the bin")
	}
	if stored.Payload != "Y2lwaGVydGV4dA==" || !stored.HasPassword || stored.Retention != "60" {
		t.Errorf("Unexpected stored bin: %+v", stored)
	}

	fetched, err := store.Fetch(ctx, bin.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Payload != "Y2lwaGVydGV4dA==" || !fetched.HasPassword || fetched.ID != "1" {
		t.Errorf("Unexpected fetched bin: %+v", fetched)
	}

	_, err = store.Fetch(ctx, bin.URL)
	if !errors.Is(err, kerrors.ErrBinNotFound) {
		t.Errorf("Expected ErrBinNotFound on second fetch, got %v", err)
	}
}

func TestHTTPStoreFollowsCreateRedirect(t *testing.T) {
	server := binstoretest.NewServer()
	server.RedirectOnCreate = true
	defer server.Close()

	bin, err := newTestStore(t, server.URL+"/").Store(context.Background(), "cGF5bG9hZA==", false, 10)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if bin.ID != "1" {
		t.Errorf("Expected id from redirect, got %q", bin.ID)
	}
	if bin.URL != server.URL+"/bins/1" {
		t.Errorf("Unexpected url %q", bin.URL)
	}
}

func TestHTTPStoreSendsUserAgent(t *testing.T) {
	var (
		mu     sync.Mutex
		agents []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.UserAgent())
		mu.Unlock()
		w.Write([]byte(`<meta name="authenticity_token" content="t">`))
	}))
	defer server.Close()

	_, _ = newTestStore(t, server.URL).Store(context.Background(), "cA==", false, 1)

	mu.Lock()
	defer mu.Unlock()
	if len(agents) == 0 || agents[0] != "ahasecret-test" {
		t.Errorf("Expected user agent to be sent, got %v", agents)
	}
}

func TestHTTPStoreErrors(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>maintenance</body></html>"))
		}))
		defer server.Close()

		_, err := newTestStore(t, server.URL).Store(context.Background(), "cA==", false, 1)
		if !errors.Is(err, kerrors.ErrTokenNotFound) {
			t.Errorf("Expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("UnknownBin", func(t *testing.T) {
		server := binstoretest.NewServer()
		defer server.Close()

		_, err := newTestStore(t, server.URL).Fetch(context.Background(), server.URL+"/bins/42")
		if !errors.Is(err, kerrors.ErrBinNotFound) {
			t.Errorf("Expected ErrBinNotFound, got %v", err)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestStore(t, server.URL).Store(context.Background(), "cA==", false, 1)
		if !errors.Is(err, kerrors.ErrUnexpectedResponse) {
			t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("RevealWithoutPayload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Write([]byte(`<meta name="authenticity_token" content="t">`))
				return
			}
			w.Write([]byte(`{"has_password":false}`))
		}))
		defer server.Close()

		_, err := newTestStore(t, server.URL).Fetch(context.Background(), server.URL+"/bins/1")
		if !errors.Is(err, kerrors.ErrUnexpectedResponse) {
			t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		server := binstoretest.NewServer()
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestStore(t, server.URL).Store(ctx, "cA==", false, 1)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

func TestBinIDFromPath(t *testing.T) {
	tests := map[string]string{
		"/bins/abc":      "abc",
		"/app/bins/42/":  "42",
		"/abc":           "",
		"/bins":          "",
		"/other/thing/1": "",
	}
	for input, expected := range tests {
		if got := binIDFromPath(input); got != expected {
			t.Errorf("binIDFromPath(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestBinURL(t *testing.T) {
	got, err := binURL("https://secret.example.com/app/?lang=de", "7")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://secret.example.com/app/bins/7" {
		t.Errorf("Unexpected bin url %q", got)
	}
	if _, err := binURL("not a url", "7"); !strings.Contains(err.Error(), "invalid server url") {
		t.Errorf("Expected invalid server url error, got %v", err)
	}
}
