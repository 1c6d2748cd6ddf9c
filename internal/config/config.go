// Package config loads runtime settings from PLACES_ prefixed environment
// variables, optionally seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PLACES_"

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	Geocode  GeocodeConfig  `koanf:"geocode" validate:"required"`
	Storage  StorageConfig  `koanf:"storage" validate:"required"`
}

type ServerConfig struct {
	Port              string        `koanf:"port" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// AuthConfig holds the token signing secret and password hashing cost.
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret" validate:"required,min=32"`
	TokenTTL   time.Duration `koanf:"token_ttl" validate:"gt=0"`
	BcryptCost int           `koanf:"bcrypt_cost" validate:"min=4,max=14"`
}

// GeocodeConfig points at the external geocoding service.
type GeocodeConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	APIKey  string        `koanf:"api_key" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// StorageConfig selects where uploaded images are kept: files under
// UploadDir ("disk") or BLOBs in the database ("sqlite").
type StorageConfig struct {
	Driver    string `koanf:"driver" validate:"oneof=disk sqlite"`
	UploadDir string `koanf:"upload_dir" validate:"required_if=Driver disk"`
}

// Default returns the configuration used when no variable overrides a field.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "5000",
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Database: DatabaseConfig{Path: "places.db"},
		Auth: AuthConfig{
			TokenTTL:   time.Hour,
			BcryptCost: 12,
		},
		Geocode: GeocodeConfig{
			BaseURL: "https://eu1.locationiq.com/v1/search.php",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: "disk", UploadDir: "."},
	}
}

// Load reads PLACES_* variables over the defaults and validates the result.
// PLACES_SERVER_PORT maps to server.port, PLACES_AUTH_JWT_SECRET to
// auth.jwt_secret: the first underscore after the prefix separates the section.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
