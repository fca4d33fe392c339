package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/openarcade/scorekeep/internal/dependencies/clock"
	"github.com/openarcade/scorekeep/internal/dependencies/random"
	"github.com/openarcade/scorekeep/internal/model"
	"github.com/openarcade/scorekeep/internal/services/auth"
	"github.com/openarcade/scorekeep/internal/services/repo"
	"github.com/openarcade/scorekeep/internal/storage"
	filestorage "github.com/openarcade/scorekeep/internal/storage/file"
	"github.com/openarcade/scorekeep/internal/storage/memory"
	redisstorage "github.com/openarcade/scorekeep/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Repo        *repo.Service
	AuthService *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "file" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// DataPath is the document file path (required if StorageType is "file")
	DataPath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AdminUsername/AdminPassword seed an admin account if set
	AdminUsername string
	AdminPassword string
}

// New creates a new application with all dependencies wired and the durable
// document loaded into memory.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		if cfg.DataPath == "" {
			return nil, errors.New("DataPath required when StorageType is file")
		}
		fileStore, err := filestorage.New(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'file' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, logger)

	if err := app.Repo.Load(ctx); err != nil {
		return nil, err
	}

	if cfg.AdminUsername != "" {
		if err := app.bootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	repository := repo.New(store, clk, logger)
	authService := auth.New(repository, clk, rnd)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Repo:        repository,
		AuthService: authService,
	}
}

// bootstrapAdmin seeds an admin account on first startup. An existing user
// with the same username is left untouched.
func (a *App) bootstrapAdmin(ctx context.Context, username, password string, logger *slog.Logger) error {
	user, err := a.Repo.AddUser(ctx, username, password, "Administrator")
	if err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil
		}
		return err
	}

	user.Admin = true
	if err := a.Repo.UpdateUser(ctx, *user); err != nil {
		return err
	}

	logger.Info("admin account bootstrapped", slog.String("username", username))
	return nil
}
