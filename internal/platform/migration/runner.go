// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL migrations under data/migrations with
// golang-migrate.
//
// It is run by cmd/api and cmd/importer before any repository is used, so the
// film, list and listfilm tables (and the singleton list index) always exist.
// The version bookkeeping lives in public.cinepocket_schema_migrations: the
// cinepocket schema itself is created by the first migration, so it cannot
// hold the table that records it.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsTable records the applied version.
const MigrationsTable = "cinepocket_schema_migrations"

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - dsn: A postgres:// or postgresql:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	sourceURL, databaseURL, err := migrationURLs(dsn, migrationsPath)
	if err != nil {
		return err
	}

	migrator, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if err := errors.Join(sourceError, dbError); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	from, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: %s is dirty at version %d (fix the schema, then force the version)", MigrationsTable, from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// migrationURLs turns the application DSN and the migrations directory into
// golang-migrate URLs: the pgx5 scheme plus the bookkeeping table, and an
// absolute file:// source.
func migrationURLs(dsn, migrationsPath string) (source string, database string, err error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", "", fmt.Errorf("migration: invalid DATABASE_URL: %w", err)
	}
	switch parsed.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", "", fmt.Errorf("migration: DATABASE_URL must be a postgres:// URL, got scheme %q", parsed.Scheme)
	}
	parsed.Scheme = "pgx5"

	query := parsed.Query()
	query.Set("x-migrations-table", MigrationsTable)
	parsed.RawQuery = query.Encode()

	absolute, err := filepath.Abs(migrationsPath)
	if err != nil {
		return "", "", fmt.Errorf("migration: invalid MIGRATION_PATH: %w", err)
	}
	sourceURL := url.URL{Scheme: "file", Path: filepath.ToSlash(absolute)}

	return sourceURL.String(), parsed.String(), nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_step", slog.String("detail", fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger. Per-file output is emitted only at debug level.
func (l *migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
