// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides the managed PostgreSQL connection pool and the
// transaction helper shared by the film and list repositories.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// database connections (pgxpool). The pool is created once in cmd/api and
// injected everywhere else; no other package closes it.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinepocket/internal/platform/constants"
)

const (
	// minConns keeps one warm connection; a single user rarely needs more.
	minConns = 1
	// maxConnIdleTime closes connections left over from a burst of edits.
	maxConnIdleTime = 5 * time.Minute
	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// PoolSettings configures [NewPool].
type PoolSettings struct {
	// DSN is a postgres:// URL or libpq key/value string.
	DSN string

	// MaxConns caps the pool. Zero keeps the pgx default.
	MaxConns int32

	// LockTimeout bounds the wait for a film row locked by a concurrent
	// transition (SELECT ... FOR UPDATE). Zero disables it.
	LockTimeout time.Duration
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - settings: Connection string and workload limits.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, settings PoolSettings, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := parseConfig(settings)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.String("search_path", poolConfig.ConnConfig.RuntimeParams["search_path"]),
		slog.Duration("lock_timeout", settings.LockTimeout),
	)

	return pool, nil
}

// parseConfig builds the pool configuration. Session settings travel as
// startup parameters so every physical connection gets them without an
// extra round trip.
func parseConfig(settings PoolSettings) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if settings.MaxConns > 0 {
		poolConfig.MaxConns = settings.MaxConns
	}
	poolConfig.MinConns = min(minConns, poolConfig.MaxConns)
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName
	params["search_path"] = constants.SchemaCinePocket + ",public"
	params["statement_timeout"] = milliseconds(constants.GlobalRequestTimeout)
	if settings.LockTimeout > 0 {
		params["lock_timeout"] = milliseconds(settings.LockTimeout)
	}

	return poolConfig, nil
}

func milliseconds(duration time.Duration) string {
	return strconv.FormatInt(duration.Milliseconds(), 10)
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
