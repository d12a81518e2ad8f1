// Package session keeps the signed-in principal for a storefront client.
package session

import (
	"context"
	"sync"

	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
)

type (
	Credentials  = models.Credentials
	Registration = models.Registration
)

// Backend is the auth half of the hosted API.
type Backend interface {
	SignIn(ctx context.Context, creds Credentials) (*models.User, error)
	SignUp(ctx context.Context, reg Registration) (*models.User, error)
	SignOut(ctx context.Context) error
	// CurrentUser returns (nil, nil) when there is no session.
	CurrentUser(ctx context.Context) (*models.User, error)
}

// State is what guards look at.
type State struct {
	Loading bool
	User    *models.User
}

type Store struct {
	backend Backend

	mu      sync.RWMutex
	loading bool
	user    *models.User
	subs    []func(State)
}

// New returns a store that reports Loading until Init finishes.
func New(backend Backend) *Store {
	return &Store{backend: backend, loading: true}
}

// Init resolves the existing session, if any. Backend failures count as
// "no session".
func (s *Store) Init(ctx context.Context) {
	s.set(State{Loading: true, User: s.Current()})

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		logging.Failure("session_init", err, logging.Fields{Message: "no active session"})
		user = nil
	}
	s.set(State{Loading: false, User: user})
}

// Login installs the user on success. On failure no session is kept and the
// backend's error is returned unchanged so callers can tell ban, pending and
// bad credentials apart.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	user, err := s.backend.SignIn(ctx, creds)
	if err != nil {
		s.set(State{User: nil})
		return err
	}
	s.set(State{User: user})
	return nil
}

// Logout always clears the local session, even when the backend call fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.backend.SignOut(ctx)
	if err != nil {
		logging.Failure("session_logout", err, logging.Fields{UserID: s.userID()})
	}
	s.set(State{User: nil})
	return err
}

// Register creates a pending account; it never signs the user in.
func (s *Store) Register(ctx context.Context, reg Registration) (*models.User, error) {
	return s.backend.SignUp(ctx, reg)
}

func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Loading: s.loading, User: s.user}
}

// Subscribe registers fn to run after every state change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.loading = st.Loading
	s.user = st.User
	subs := make([]func(State), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (s *Store) userID() uint {
	if u := s.Current(); u != nil {
		return u.ID
	}
	return 0
}
