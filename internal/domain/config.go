package domain

import (
	"fmt"
	"time"
)

// StorageDriver identifies the backend the stores are opened against.
type StorageDriver string

const (
	DriverMemory   StorageDriver = "memory"
	DriverMongo    StorageDriver = "mongo"
	DriverPostgres StorageDriver = "postgres"
)

// ValidStorageDrivers enumerates all recognized storage drivers.
var ValidStorageDrivers = []StorageDriver{DriverMemory, DriverMongo, DriverPostgres}

// Config holds service configuration loaded from kraftstore.yaml and the
// environment.
type Config struct {
	Server  ServerConfig  `yaml:"server"  json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Auth    AuthConfig    `yaml:"auth"    json:"auth"`
	Cart    CartConfig    `yaml:"cart"    json:"cart"`
	Log     LogConfig     `yaml:"log"     json:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"          json:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	// BaseURL is where the terminal client reaches the API.
	BaseURL string `yaml:"base_url" json:"base_url"`
}

type StorageConfig struct {
	Driver        StorageDriver `yaml:"driver"         json:"driver"`
	MongoURI      string        `yaml:"mongo_uri"      json:"mongo_uri,omitempty"`
	MongoDatabase string        `yaml:"mongo_database" json:"mongo_database,omitempty"`
	PostgresDSN   string        `yaml:"postgres_dsn"   json:"postgres_dsn,omitempty"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"  json:"-"`
	TokenTTL   time.Duration `yaml:"token_ttl"   json:"token_ttl"`
	AdminEmail string        `yaml:"admin_email" json:"admin_email,omitempty"`
	BcryptCost int           `yaml:"bcrypt_cost" json:"bcrypt_cost"`
}

type CartConfig struct {
	Path string `yaml:"path" json:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig returns a config that runs entirely in memory.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			BaseURL:      "http://localhost:3000",
		},
		Storage: StorageConfig{
			Driver:        DriverMemory,
			MongoDatabase: "kraftstore",
		},
		Auth: AuthConfig{
			TokenTTL:   30 * 24 * time.Hour,
			BcryptCost: 12,
		},
		Cart: CartConfig{Path: ".kraftstore/cart.json"},
		Log:  LogConfig{Level: "info"},
	}
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. storage driver must be known
	valid := false
	for _, d := range ValidStorageDrivers {
		if c.Storage.Driver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown storage driver %q (valid: memory, mongo, postgres)", c.Storage.Driver)
	}

	// 2. driver-specific connection settings
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for the mongo driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	}

	// 3. durable stores need a signing secret
	if c.Storage.Driver != DriverMemory && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required with the %s driver", c.Storage.Driver)
	}

	// 4. bcrypt cost bounds
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31 (got %d)", c.Auth.BcryptCost)
	}

	// 5. token lifetime
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}

	// 6. log level
	valid = false
	for _, l := range validLogLevels {
		if c.Log.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", c.Log.Level)
	}

	return nil
}
