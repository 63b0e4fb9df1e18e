package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	fileName = "kraftstore.yaml"
	envFile  = ".env"
)

// YAMLLoader reads kraftstore.yaml and overlays the environment on it.
type YAMLLoader struct {
	getenv func(string) string
	dotenv bool
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader { return &YAMLLoader{getenv: os.Getenv, dotenv: true} }

// NewWithEnv creates a YAMLLoader reading env instead of the process
// environment. The .env file is not consulted.
func NewWithEnv(env map[string]string) *YAMLLoader {
	return &YAMLLoader{getenv: func(k string) string { return env[k] }}
}

// Load reads kraftstore.yaml from dir, then applies .env and environment
// overrides. A missing file leaves DefaultConfig in place.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}

	if l.dotenv {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(filepath.Join(dir, envFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables on cfg. Set variables always win.
func (l *YAMLLoader) applyEnv(cfg *domain.Config) error {
	str := func(key string, dst *string) {
		if v := l.getenv(key); v != "" {
			*dst = v
		}
	}

	str("KRAFTSTORE_ADDR", &cfg.Server.Addr)
	str("KRAFTSTORE_BASE_URL", &cfg.Server.BaseURL)
	if v := l.getenv("KRAFTSTORE_DRIVER"); v != "" {
		cfg.Storage.Driver = domain.StorageDriver(v)
	}
	str("MONGODB_URI", &cfg.Storage.MongoURI)
	str("MONGODB_DATABASE", &cfg.Storage.MongoDatabase)
	str("DATABASE_URL", &cfg.Storage.PostgresDSN)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("ADMIN_EMAIL", &cfg.Auth.AdminEmail)
	str("KRAFTSTORE_CART", &cfg.Cart.Path)
	str("KRAFTSTORE_LOG_LEVEL", &cfg.Log.Level)

	if v := l.getenv("KRAFTSTORE_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing KRAFTSTORE_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	return nil
}
