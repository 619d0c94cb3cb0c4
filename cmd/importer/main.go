// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command importer seeds the Watchlist from a JSON array of films.
//
// Films whose slug is already stored are reported and left untouched; every
// other entry is created with status to_watch and appended to the Watchlist.
// The import is a single transaction against PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/cinepocket/internal/core/watch"
	"github.com/taibuivan/cinepocket/internal/platform/config"
	"github.com/taibuivan/cinepocket/internal/platform/migration"
	pgstore "github.com/taibuivan/cinepocket/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "cinepocket-importer"))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("import_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return errors.New("importer: STORAGE_DRIVER must be postgres")
	}

	entries, err := readEntries(cfg.ImportFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.PoolSettings(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return err
	}

	engine := watch.NewEngine(watch.NewPostgresUnitOfWork(pool), nil, log)
	report, err := engine.ImportWatchlist(ctx, entries)
	if err != nil {
		return err
	}

	for _, filmSlug := range report.Skipped {
		log.Warn("film_already_stored", slog.String("slug", filmSlug))
	}
	log.Info("import_finished",
		slog.String("file", cfg.ImportFile),
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
	)
	return nil
}

// readEntries decodes the import file. Fields the importer does not know are ignored.
func readEntries(path string) ([]watch.ImportEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", path, err)
	}
	defer file.Close()

	var entries []watch.ImportEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return nil, fmt.Errorf("importer: decode %s: %w", path, err)
	}
	return entries, nil
}
