// Package binstoretest provides a fake aha-secret server for tests.
package binstoretest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

const (
	// Token is the authenticity token the fake server hands out.
	Token = "fake-authenticity-token"

	sessionCookie = "_aha_session"
	sessionValue  = "fake-session"
)

// StoredBin is a bin as recorded by the fake server.
type StoredBin struct {
	Payload     string
	HasPassword bool
	Retention   string
}

// Server is an httptest.Server that behaves like an aha-secret instance:
// pages carry a token in a meta tag, writes require the token and the session
// cookie, and a bin is deleted after its first reveal.
type Server struct {
	*httptest.Server

	// RedirectOnCreate makes POST /bins answer with a redirect to the new bin
	// instead of JSON.
	RedirectOnCreate bool

	mu     sync.Mutex
	bins   map[string]StoredBin
	nextID int
}

// NewServer starts a fake server. Callers must Close it.
func NewServer() *Server {
	s := &Server{bins: make(map[string]StoredBin)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /bins", s.handleCreate)
	mux.HandleFunc("GET /bins/{id}", s.handleBinPage)
	mux.HandleFunc("PATCH /bins/{id}/reveal", s.handleReveal)

	s.Server = httptest.NewServer(mux)
	return s
}

// Bin returns the stored bin with id.
func (s *Server) Bin(id string) (StoredBin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bin, ok := s.bins[id]
	return bin, ok
}

// Len returns the number of bins not yet revealed.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bins)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionValue, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html><head>
<meta charset="utf-8">
<meta name="authenticity_token" content="%s">
<title>aha-secret</title>
</head><body><form method="post" action="/bins"></form></body></html>`, Token)
}

func (s *Server) handleBinPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Bin(r.PathValue("id")); !ok {
		http.NotFound(w, r)
		return
	}
	s.handlePage(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, r.PostFormValue("authenticity_token")) {
		http.Error(w, "invalid authenticity token", http.StatusUnprocessableEntity)
		return
	}

	payload := r.PostFormValue("bin[payload]")
	if payload == "" {
		http.Error(w, "payload missing", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.bins[id] = StoredBin{
		Payload:     payload,
		HasPassword: r.PostFormValue("bin[has_password]") == "true",
		Retention:   r.PostFormValue("bin[retention]"),
	}
	s.mu.Unlock()

	if s.RedirectOnCreate {
		http.Redirect(w, r, "/bins/"+id, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":  s.nextIDNumber(id),
		"url": "/bins/" + id,
	})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, r.URL.Query().Get("authenticity_token")) {
		http.Error(w, "invalid authenticity token", http.StatusUnprocessableEntity)
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	bin, ok := s.bins[id]
	delete(s.bins, id)
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"payload":      bin.Payload,
		"has_password": bin.HasPassword,
	})
}

// nextIDNumber returns ids as JSON numbers, the way the Rails app renders them.
func (s *Server) nextIDNumber(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}

func authorized(r *http.Request, token string) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value != sessionValue {
		return false
	}
	return token == Token
}
