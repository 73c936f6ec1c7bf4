// Package session holds the storefront's signed-in user and token. The stored
// copy is only used for display until the server confirms the token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodorder/internal/localstore"
	"foodorder/internal/model"
)

const (
	StorageKey = "food-order-auth"
	TTL        = 24 * time.Hour
)

// ErrSuperseded is returned by Restore when a login or logout happened while
// the stored token was being verified. The newer state wins.
var ErrSuperseded = errors.New("session changed during verification")

type Verifier interface {
	Verify(ctx context.Context, token string) (*model.User, error)
}

type persisted struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	Timestamp int64      `json:"timestamp"`
}

type Store struct {
	mu       sync.Mutex
	store    localstore.Store
	verifier Verifier
	now      func() time.Time

	token string
	user  *model.User

	// pending is the stored user shown while verification is in flight.
	pending *model.User
	// gen increments on every login and logout.
	gen uint64
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(store localstore.Store, verifier Verifier, opts ...Option) *Store {
	s := &Store{store: store, verifier: verifier, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a stored session younger than TTL and re-validates its token
// with the server. On verification failure the session is cleared. It returns
// nil without a network call when nothing usable is stored.
func (s *Store) Restore(ctx context.Context) error {
	entry, ok := s.load()
	if !ok {
		return nil
	}

	s.mu.Lock()
	gen := s.gen
	pending := entry.User
	s.pending = &pending
	s.mu.Unlock()

	user, err := s.verifier.Verify(ctx, entry.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil

	if s.gen != gen {
		return ErrSuperseded
	}

	if err != nil {
		s.clearLocked()
		return fmt.Errorf("verify session: %w", err)
	}

	s.token = entry.Token
	s.user = user
	return nil
}

func (s *Store) load() (persisted, bool) {
	raw, ok, err := s.store.Get(StorageKey)
	if err != nil {
		slog.Warn("failed to load session", "error", err)
		return persisted{}, false
	}
	if !ok {
		return persisted{}, false
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil || p.Token == "" {
		slog.Warn("discarding unreadable session", "error", err)
		return persisted{}, false
	}

	if s.now().Sub(time.UnixMilli(p.Timestamp)) > TTL {
		if err := s.store.Delete(StorageKey); err != nil {
			slog.Warn("failed to remove expired session", "error", err)
		}
		return persisted{}, false
	}

	return p, true
}

// Login stores a session returned by the login or signup endpoint.
func (s *Store) Login(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.token = token
	s.user = &user

	raw, err := json.Marshal(persisted{Token: token, User: user, Timestamp: s.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(StorageKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Signup is Login: both endpoints answer with {token, user}.
func (s *Store) Signup(token string, user model.User) error {
	return s.Login(token, user)
}

// Logout clears memory and storage unconditionally.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	s.token = ""
	s.user = nil
	if err := s.store.Delete(StorageKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the verified user, or nil.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// DisplayUser returns the verified user or, while Restore is verifying, the
// stored one. It must not be used for authorization decisions.
func (s *Store) DisplayUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user
	if u == nil {
		u = s.pending
	}
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != "" && s.user.IsAdmin
}
