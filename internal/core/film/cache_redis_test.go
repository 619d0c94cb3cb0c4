// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package film_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/cinepocket/internal/core/film"
	redisstore "github.com/taibuivan/cinepocket/internal/platform/redis"
)

// startRedis runs a throwaway Redis container and returns a connected cache.
func startRedis(t *testing.T) *film.RedisFilterCache {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("WARNING: failed to terminate redis container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := redisstore.NewClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return film.NewRedisFilterCache(client, time.Minute)
}

func TestRedisFilterCache_Lifecycle(t *testing.T) {
	cache := startRedis(t)
	ctx := context.Background()

	missing, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	filters := &film.Filters{
		Directors: []string{"Denis Villeneuve"},
		Origins:   []string{"Canada"},
		Tags:      []string{"sci-fi"},
		Platforms: []string{"Netflix"},
	}
	require.NoError(t, cache.Set(ctx, filters))

	cached, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, filters, cached)

	require.NoError(t, cache.Invalidate(ctx))
	cached, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

/*
TestService_FiltersThroughRedis checks that a film write drops the cached menus.
*/
func TestService_FiltersThroughRedis(t *testing.T) {
	cache := startRedis(t)
	ctx := context.Background()

	repo := film.NewMemoryRepository()
	service := film.NewService(repo, directTx{repo: repo}, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, service.CreateFilm(ctx, &film.Film{Title: "Dune", Tags: []string{"sci-fi"}}))
	first, err := service.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sci-fi"}, first.Tags)

	require.NoError(t, service.CreateFilm(ctx, &film.Film{Title: "Heat", Tags: []string{"crime"}}))
	second, err := service.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"crime", "sci-fi"}, second.Tags)
}
