// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package watch_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/core/watch"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/migration"
	"github.com/taibuivan/cinepocket/internal/platform/postgres"
)

// startPostgres runs a migrated PostgreSQL container for the duration of t.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:14.1-alpine"),
		tcpostgres.WithDatabase("cinepocket"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("WARNING: failed to terminate postgres container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrations, err := filepath.Abs("../../../data/migrations")
	require.NoError(t, err)
	require.NoError(t, migration.RunUp(dsn, migrations, discardLogger()))

	pool, err := postgres.NewPool(ctx, postgres.PoolSettings{DSN: dsn, MaxConns: 8, LockTimeout: 10 * time.Second}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgres_WatchFlow(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	engine := watch.NewEngine(watch.NewPostgresUnitOfWork(pool), nil, discardLogger())
	lists := list.NewPostgresRepository(pool)

	added, err := engine.AddToWatchlist(ctx, film.BySlug("dune", "Dune"))
	require.NoError(t, err)
	assert.Equal(t, film.StatusToWatch, added.Film.Status)

	_, err = engine.AddToWatchlist(ctx, film.ByID(added.Film.ID))
	assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyInList))

	watched, err := engine.MarkAsWatched(ctx, film.ByID(added.Film.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, watched.TimesWatched)

	watchlist, err := lists.FindByType(ctx, list.TypeWatchlist)
	require.NoError(t, err)
	assert.Empty(t, watchlist.FilmIDs)

	seenList, err := lists.FindByType(ctx, list.TypeSeenList)
	require.NoError(t, err)
	assert.Equal(t, []string{added.Film.ID}, seenList.FilmIDs)

	again, err := engine.AddToWatchlist(ctx, film.BySlug("dune", ""))
	require.NoError(t, err)
	assert.Equal(t, film.StatusToRewatch, again.Film.Status)
}

/*
TestPostgres_AddFilmNamesMissingReference checks each membership foreign key
reports the resource it points at.
*/
func TestPostgres_AddFilmNamesMissingReference(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	engine := watch.NewEngine(watch.NewPostgresUnitOfWork(pool), nil, discardLogger())
	lists := list.NewPostgresRepository(pool)

	added, err := engine.AddToWatchlist(ctx, film.BySlug("alien", "Alien"))
	require.NoError(t, err)
	watchlist, err := lists.FindByType(ctx, list.TypeWatchlist)
	require.NoError(t, err)

	const unknownID = "0190a000-0000-7000-8000-000000000000"

	_, err = lists.AddFilm(ctx, unknownID, added.Film.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.EqualError(t, err, "List not found")

	_, err = lists.AddFilm(ctx, watchlist.ID, unknownID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.EqualError(t, err, "Film not found")
}

/*
TestPostgres_RollbackRestoresWatchlist fails the SeenList step inside a real
transaction and checks the Watchlist removal is undone.
*/
func TestPostgres_RollbackRestoresWatchlist(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	uow := watch.NewPostgresUnitOfWork(pool)
	engine := watch.NewEngine(uow, nil, discardLogger())

	added, err := engine.AddToWatchlist(ctx, film.BySlug("heat", "Heat"))
	require.NoError(t, err)

	broken := watch.NewEngine(failingUnitOfWork{inner: uow}, nil, discardLogger())
	_, err = broken.MarkAsWatched(ctx, film.ByID(added.Film.ID))
	require.Error(t, err)

	watchlist, err := list.NewPostgresRepository(pool).FindByType(ctx, list.TypeWatchlist)
	require.NoError(t, err)
	assert.Equal(t, []string{added.Film.ID}, watchlist.FilmIDs)

	stored, err := film.NewPostgresRepository(pool).FindByID(ctx, added.Film.ID)
	require.NoError(t, err)
	assert.Equal(t, film.StatusToWatch, stored.Status)
	assert.Empty(t, stored.WatchedDates)
}

/*
TestPostgres_ConcurrentFirstUseCreatesOneWatchlist races the lazy creation of
the singleton Watchlist across pool connections.
*/
func TestPostgres_ConcurrentFirstUseCreatesOneWatchlist(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	engine := watch.NewEngine(watch.NewPostgresUnitOfWork(pool), nil, discardLogger())

	var wg sync.WaitGroup
	for index := 0; index < 8; index++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			title := fmt.Sprintf("Film %d", index)
			_, err := engine.AddToWatchlist(ctx, film.BySlug(title, title))
			assert.NoError(t, err)
		}(index)
	}
	wg.Wait()

	all, err := list.NewPostgresRepository(pool).FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].FilmIDs, 8)
}

func TestPostgres_MarkAsWatchedConcurrentlyCountsEveryViewing(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	engine := watch.NewEngine(watch.NewPostgresUnitOfWork(pool), nil, discardLogger())
	first, err := engine.MarkAsWatched(ctx, film.BySlug("aftersun", "Aftersun"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for index := 0; index < 5; index++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.MarkAsWatched(ctx, film.ByID(first.Film.ID))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := film.NewPostgresRepository(pool).FindByID(ctx, first.Film.ID)
	require.NoError(t, err)
	assert.Len(t, stored.WatchedDates, 6)
}
