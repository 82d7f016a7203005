// Package session owns the client's authentication state: who is logged in,
// the token proving it, and the durable copy that survives restarts. The
// Store is the only writer; everything else reads snapshots.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
)

// Session is the authenticated identity held for the current login
type Session struct {
	Token string      `json:"token"`
	User  client.User `json:"user"`
}

// AuthAPI is the slice of the API client the store needs
type AuthAPI interface {
	Login(email, password string) (*client.LoginResponse, error)
	Signup(name, email, password string) (*client.SignupResponse, error)
}

// Store is the single source of truth for the current session
type Store struct {
	api     AuthAPI
	backend Backend

	mu       sync.Mutex
	session  *Session
	gen      uint64 // bumped on logout so in-flight logins can detect it
	watchers []func(Session, bool)
}

// NewStore creates a store and restores any persisted session. A record that
// no longer parses is discarded rather than reported.
func NewStore(api AuthAPI, backend Backend) *Store {
	s := &Store{api: api, backend: backend}

	data, err := backend.Load()
	if err != nil {
		return s
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		_ = backend.Delete()
		return s
	}

	s.session = &sess
	return s
}

// Current returns a snapshot of the active session, if any. It never blocks
// on the network and has no side effects.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Token implements client.TokenSource
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", false
	}
	return s.session.Token, true
}

// Login authenticates and, on success, installs and persists the session.
// On failure the previous state is untouched. A success that resolves after
// an intervening Logout is discarded so the logout sticks.
func (s *Store) Login(email, password string) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	resp, err := s.api.Login(email, password)
	if err != nil {
		return err
	}

	sess := Session{Token: resp.Token, User: resp.User}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	// The generation check, the in-memory install and the durable write all
	// happen under one lock hold, so a concurrent Logout cannot slip in
	// between the check and the persist and leave a stale record behind.
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	s.session = &sess
	watchers := s.snapshotWatchers()
	saveErr := s.backend.Save(data)
	s.mu.Unlock()

	s.notify(watchers, sess, true)

	if saveErr != nil {
		// The in-memory session stays valid for this process
		return fmt.Errorf("failed to persist session: %w", saveErr)
	}

	return nil
}

// Signup creates an account. No session is created; the caller logs in
// afterwards.
func (s *Store) Signup(name, email, password string) error {
	_, err := s.api.Signup(name, email, password)
	return err
}

// Logout clears the session unconditionally. Safe to call with no active
// session; calling it twice is a no-op both times.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.gen++
	s.session = nil
	watchers := s.snapshotWatchers()
	err := s.backend.Delete()
	s.mu.Unlock()

	s.notify(watchers, Session{}, false)

	return err
}

// Invalidate is the implicit logout triggered when any request is rejected
// as unauthorized. Persistence errors are deliberately dropped here: the
// caller is already handling a request failure.
func (s *Store) Invalidate() {
	_ = s.Logout()
}

// OnChange registers a callback invoked after every session replacement with
// the new snapshot. Callbacks run outside the store lock.
func (s *Store) OnChange(fn func(Session, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

func (s *Store) snapshotWatchers() []func(Session, bool) {
	watchers := make([]func(Session, bool), len(s.watchers))
	copy(watchers, s.watchers)
	return watchers
}

func (s *Store) notify(watchers []func(Session, bool), sess Session, active bool) {
	for _, fn := range watchers {
		fn(sess, active)
	}
}
