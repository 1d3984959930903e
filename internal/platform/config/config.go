// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, identity backend) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Identity Backends

const (
	// BackendGoTrue talks to a hosted GoTrue-compatible auth service.
	BackendGoTrue = "gotrue"

	// BackendLocal keeps accounts in our own PostgreSQL and signs RS256 tokens.
	BackendLocal = "local"
)

// # Configuration Schema

// Config holds all runtime configuration for the Trading Hub API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// DatabaseMaxConns caps the pgx pool shared by profiles, catalogue and local accounts.
	DatabaseMaxConns int32 `env:"DATABASE_MAX_CONNS" envDefault:"20"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for refresh-token bindings
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// IdentityBackend selects the identity provider implementation.
	IdentityBackend string `env:"IDENTITY_BACKEND" envDefault:"gotrue"`

	// Hosted auth service (gotrue backend)
	AuthURL        string `env:"AUTH_URL"`
	AuthPublicKey  string `env:"AUTH_PUBLIC_KEY"`
	AuthServiceKey string `env:"AUTH_SERVICE_KEY"`

	// AuthTimeout bounds each call to the hosted auth service.
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`

	// RSA keys for the local backend
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// InternalAPIKey guards the /internal probes. Empty disables them.
	InternalAPIKey string `env:"INTERNAL_API_KEY"`

	// Cross-Origin Resource Sharing (exact matches only)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000"`

	// SessionRefreshLeeway is how close to expiry a session cookie must be
	// before the refresher renews it.
	SessionRefreshLeeway time.Duration `env:"SESSION_REFRESH_LEEWAY" envDefault:"10m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	switch c.IdentityBackend {
	case BackendGoTrue:
		if c.AuthURL == "" || c.AuthPublicKey == "" || c.AuthServiceKey == "" {
			return errors.New("config: AUTH_URL, AUTH_PUBLIC_KEY and AUTH_SERVICE_KEY are required for the gotrue backend")
		}
	case BackendLocal:
		if c.JWTPrivKeyPath == "" || c.JWTPubKeyPath == "" {
			return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH are required for the local backend")
		}
	default:
		return fmt.Errorf("config: unknown IDENTITY_BACKEND %q", c.IdentityBackend)
	}

	if len(c.AllowedOrigins) == 0 {
		return errors.New("config: ALLOWED_ORIGINS must list at least one origin")
	}

	if c.DatabaseMaxConns < 1 || c.RedisPoolSize < 1 {
		return errors.New("config: DATABASE_MAX_CONNS and REDIS_POOL_SIZE must be at least 1")
	}

	if c.SessionRefreshLeeway <= 0 {
		return errors.New("config: SESSION_REFRESH_LEEWAY must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
// Session cookies carry the Secure attribute only in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
