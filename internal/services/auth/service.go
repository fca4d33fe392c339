package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openarcade/scorekeep/internal/dependencies/clock"
	"github.com/openarcade/scorekeep/internal/dependencies/random"
	"github.com/openarcade/scorekeep/internal/model"
	"github.com/openarcade/scorekeep/internal/services/repo"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

// tokenBytes is the entropy of a session token (128 bits minimum).
const tokenBytes = 16

// Session associates an opaque bearer token with a user id. Sessions live
// only in process memory: they are created on login, destroyed on logout,
// and gone after a restart. They carry no expiry.
type Session struct {
	Token     string
	UserID    int
	CreatedAt time.Time
}

// Service is the process-wide session registry. It also hosts the
// registration and login flows on top of the repository.
type Service struct {
	repo   *repo.Service
	clock  clock.Clock
	random random.Random

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new auth service
func New(repository *repo.Service, clk clock.Clock, rnd random.Random) *Service {
	return &Service{
		repo:     repository,
		clock:    clk,
		random:   rnd,
		sessions: make(map[string]*Session),
	}
}

// Register creates a new user account. No session is created; the spec's
// registration endpoint is public and returns only the created record.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*model.User, error) {
	return s.repo.AddUser(ctx, username, password, displayName)
}

// Login verifies credentials and creates a session, returning its token.
// Multiple concurrent sessions per user are allowed.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repo.FindUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.CreateSession(user), nil
}

// CreateSession registers a new token for the user.
func (s *Service) CreateSession(user *model.User) *Session {
	session := &Session{
		Token:     s.random.Token(tokenBytes),
		UserID:    user.ID,
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// DestroySession removes the session for the token, reporting whether one
// existed.
func (s *Service) DestroySession(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

// Resolve maps a token to the current user record. The record is fetched
// from the repository on every call, never cached, so a session always sees
// the user's latest state.
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	user, err := s.repo.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}
