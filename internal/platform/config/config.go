// Copyright (c) 2026 CinePocket. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/cinepocket/internal/platform/postgres"
)

// Supported storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the CinePocket API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageDriver selects the film and list backend ("postgres" or "memory").
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// DatabaseMaxConns caps the pgx pool; one user needs only a handful.
	DatabaseMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"4"`

	// DatabaseLockTimeout bounds waits on a film row locked by another transition.
	DatabaseLockTimeout time.Duration `env:"DB_LOCK_TIMEOUT" envDefault:"5s"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the filters cache.
	RedisURL       string        `env:"REDIS_URL"`
	FilterCacheTTL time.Duration `env:"FILTER_CACHE_TTL" envDefault:"5m"`

	// Per-IP token bucket for the API.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// ImportFile is the JSON film array read by cmd/importer.
	ImportFile string `env:"IMPORT_FILE" envDefault:"./data/films_watchlist.json"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// PoolSettings returns the PostgreSQL pool settings.
func (c *Config) PoolSettings() postgres.PoolSettings {
	return postgres.PoolSettings{
		DSN:         c.DatabaseURL,
		MaxConns:    c.DatabaseMaxConns,
		LockTimeout: c.DatabaseLockTimeout,
	}
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the CORS allow-list used outside development.
func (c *Config) Origins() []string {
	return c.AllowedOrigins
}
