package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration sourced from the environment.
type Config struct {
	Host string `env:"SCOREKEEP_HOST"`
	Port int    `env:"SCOREKEEP_PORT" envDefault:"9090"`

	// StorageType selects the document store backend: file, redis or memory
	StorageType string `env:"SCOREKEEP_STORAGE" envDefault:"file"`
	DataPath    string `env:"SCOREKEEP_DATA_PATH" envDefault:"data/data.json"`
	RedisURL    string `env:"SCOREKEEP_REDIS_URL"`

	// StaticDir is the front-end bundle directory; empty disables it
	StaticDir string `env:"SCOREKEEP_STATIC_DIR" envDefault:"static"`

	LogLevel string `env:"SCOREKEEP_LOG_LEVEL" envDefault:"info"`

	// AdminUsername/AdminPassword seed an admin account at startup. The API
	// has no self-service path to the first admin, so it must come from here
	// (or from editing the document out of band).
	AdminUsername string `env:"SCOREKEEP_ADMIN_USER"`
	AdminPassword string `env:"SCOREKEEP_ADMIN_PASS"`
}

// Load reads a .env file if present and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.StorageType == "redis" && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("SCOREKEEP_REDIS_URL required when SCOREKEEP_STORAGE=redis")
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("SCOREKEEP_ADMIN_PASS required when SCOREKEEP_ADMIN_USER is set")
	}

	return cfg, nil
}
