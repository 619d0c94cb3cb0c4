// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the CinePocket HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the film and list storage (PostgreSQL or memory).
//  4. Connect to Redis when a filters cache is configured.
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/cinepocket/internal/api"
	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/core/watch"
	"github.com/taibuivan/cinepocket/internal/platform/config"
	"github.com/taibuivan/cinepocket/internal/platform/constants"
	"github.com/taibuivan/cinepocket/internal/platform/migration"
	pgstore "github.com/taibuivan/cinepocket/internal/platform/postgres"
	redisstore "github.com/taibuivan/cinepocket/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "cinepocket"))
	slog.SetDefault(log)

	log.Info("[CinePocket] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "cinepocket"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	var (
		films  film.Repository
		lists  list.Repository
		uow    watch.UnitOfWork
		health api.HealthDependencies
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.PoolSettings(), log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		films = film.NewPostgresRepository(pool)
		lists = list.NewPostgresRepository(pool)
		uow = watch.NewPostgresUnitOfWork(pool)
		health.CheckDatabase = func(context context.Context) error {
			return pgstore.Ping(context, pool)
		}

	case config.StorageMemory:
		memoryFilms := film.NewMemoryRepository()
		memoryLists := list.NewMemoryRepository(memoryFilms)

		films, lists = memoryFilms, memoryLists
		uow = watch.NewMemoryUnitOfWork(memoryFilms, memoryLists)
		log.Warn("memory_storage_enabled", slog.String("note", "data is lost on restart"))
	}

	// ── 4. Redis (optional filters cache) ─────────────────────────────────
	var filterCache film.FilterCache = film.NoopFilterCache{}

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()

		filterCache = film.NewRedisFilterCache(rdb, cfg.FilterCacheTTL)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	filmService := film.NewService(films, watch.FilmTx(uow), filterCache, log)
	listService := list.NewService(lists, films, watch.ListTx(uow), log)
	engine := watch.NewEngine(uow, filmService, log)

	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Film:      film.NewHandler(filmService),
		List:      list.NewHandler(listService),
		Watch:     watch.NewHandler(engine),
	}

	// ── 6. HTTP Server & Graceful Shutdown ────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
