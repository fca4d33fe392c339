package repo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/openarcade/scorekeep/internal/dependencies/clock"
	"github.com/openarcade/scorekeep/internal/model"
	"github.com/openarcade/scorekeep/internal/storage"
)

// Service provides typed operations over the document store and enforces
// per-entity invariants: unique usernames, sequential ids, owner assignment.
//
// The in-memory document is guarded by a single-writer mutex. Every mutation
// stages its change on a clone, persists the clone durably, and only then
// swaps it in. A failed persist leaves the in-memory document untouched, so
// subsequent reads never observe an uncommitted write.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu  sync.RWMutex
	doc *model.Document
}

// New creates a repository service. Call Load before serving requests.
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger,
		doc:     model.NewDocument(),
	}
}

// Load reads the durable document into memory, replacing any previous state.
func (s *Service) Load(ctx context.Context) error {
	doc, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	s.logger.Info("document loaded",
		slog.Int("users", len(doc.Users)),
		slog.Int("games", len(doc.Games)),
	)
	return nil
}

// HashPassword returns the bcrypt hash stored for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// User operations

// ListUsers returns all users in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]model.User, len(s.doc.Users))
	copy(users, s.doc.Users)
	return users, nil
}

// AddUser creates a user. The id is the current user count, the admin flag
// always starts false and the password is stored as a bcrypt hash.
func (s *Service) AddUser(ctx context.Context, username, password, displayName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.ErrInvalidUser
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.UserByUsername(username) != nil {
		return nil, model.ErrUsernameTaken
	}

	user := model.User{
		ID:           len(s.doc.Users),
		Username:     username,
		PasswordHash: hash,
		Admin:        false,
		DisplayName:  displayName,
		CreatedAt:    s.clock.Now(),
	}

	next := s.doc.Clone()
	next.Users = append(next.Users, user)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user := s.doc.UserByID(id)
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// FindUser returns the user matching the given credentials. The stored
// credential is a bcrypt hash; unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) FindUser(ctx context.Context, username, password string) (*model.User, error) {
	s.mu.RLock()
	user := s.doc.UserByUsername(username)
	if user != nil {
		u := *user
		user = &u
	}
	s.mu.RUnlock()

	if user == nil {
		return nil, model.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateUser replaces the stored record matching the user's id.
func (s *Service) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	stored := next.UserByID(user.ID)
	if stored == nil {
		return model.ErrUserNotFound
	}
	*stored = user

	return s.commit(ctx, next)
}

// Game operations

// ListGames returns all games in creation order.
func (s *Service) ListGames(ctx context.Context) ([]model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]model.Game, len(s.doc.Games))
	copy(games, s.doc.Games)
	return games, nil
}

// GetGame returns the game with the given id.
func (s *Service) GetGame(ctx context.Context, id int) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game := s.doc.GameByID(id)
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

// CreateGame creates a game owned by the given user. Game ids are sequential
// starting at 1; score and completed start at their zero values.
func (s *Service) CreateGame(ctx context.Context, owner *model.User) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game := model.Game{
		ID:        len(s.doc.Games) + 1,
		UserID:    owner.ID,
		Score:     0,
		Completed: false,
		CreatedAt: s.clock.Now(),
	}

	next := s.doc.Clone()
	next.Games = append(next.Games, game)

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame replaces the stored record matching the game's id.
func (s *Service) UpdateGame(ctx context.Context, game model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	stored := next.GameByID(game.ID)
	if stored == nil {
		return model.ErrGameNotFound
	}
	*stored = game

	return s.commit(ctx, next)
}

// commit persists the staged document and swaps it in on success. Callers
// must hold the write lock.
func (s *Service) commit(ctx context.Context, next *model.Document) error {
	if err := s.storage.Save(ctx, next); err != nil {
		s.logger.Error("document persist failed", slog.String("error", err.Error()))
		return fmt.Errorf("persist document: %w", err)
	}
	s.doc = next
	return nil
}
