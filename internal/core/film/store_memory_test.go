// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/pkg/pointer"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

func storeFilm(t *testing.T, repo *film.MemoryRepository, f *film.Film) *film.Film {
	t.Helper()
	f.ID = uuid.New()
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

func TestMemoryRepository_Distinct(t *testing.T) {
	repo := film.NewMemoryRepository()

	storeFilm(t, repo, &film.Film{
		Title:    "Heat",
		Slug:     "heat",
		Status:   film.StatusToWatch,
		Director: pointer.To("Michael Mann"),
		Origin:   pointer.To("USA"),
		Tags:     []string{"crime", "thriller"},
		Platform: []film.Platform{{ID: "nf", Label: "Netflix"}},
	})
	storeFilm(t, repo, &film.Film{
		Title:    "Collateral",
		Slug:     "collateral",
		Status:   film.StatusToWatch,
		Director: pointer.To("Michael Mann"),
		Origin:   pointer.To(""),
		Tags:     []string{"thriller", " "},
		Platform: []film.Platform{{ID: "nf", Label: "Netflix"}, {ID: "ap", Label: "Apple TV"}},
	})
	storeFilm(t, repo, &film.Film{Title: "Untitled", Slug: "untitled", Status: film.StatusToWatch})

	filters, err := repo.Distinct(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Michael Mann"}, filters.Directors)
	assert.Equal(t, []string{"USA"}, filters.Origins)
	assert.Equal(t, []string{"crime", "thriller"}, filters.Tags)
	assert.Equal(t, []string{"Apple TV", "Netflix"}, filters.Platforms)
}

func TestMemoryRepository_CopiesOnReadAndWrite(t *testing.T) {
	repo := film.NewMemoryRepository()
	stored := storeFilm(t, repo, &film.Film{Title: "Ran", Slug: "ran", Status: film.StatusToWatch, Tags: []string{"epic"}})

	stored.Tags[0] = "mutated"
	found, err := repo.FindByID(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"epic"}, found.Tags)

	found.Tags[0] = "mutated-again"
	again, err := repo.FindBySlug(context.Background(), "ran")
	require.NoError(t, err)
	assert.Equal(t, []string{"epic"}, again.Tags)
}

func TestMemoryRepository_FindByIDsKeepsOrder(t *testing.T) {
	repo := film.NewMemoryRepository()
	first := storeFilm(t, repo, &film.Film{Title: "A", Slug: "a", Status: film.StatusToWatch})
	second := storeFilm(t, repo, &film.Film{Title: "B", Slug: "b", Status: film.StatusToWatch})

	films, err := repo.FindByIDs(context.Background(), []string{second.ID, uuid.New(), first.ID})
	require.NoError(t, err)

	require.Len(t, films, 2)
	assert.Equal(t, second.ID, films[0].ID)
	assert.Equal(t, first.ID, films[1].ID)
}

func TestMemoryRepository_UpdateKeepsIdentity(t *testing.T) {
	repo := film.NewMemoryRepository()
	stored := storeFilm(t, repo, &film.Film{Title: "Ikiru", Slug: "ikiru", Status: film.StatusToWatch})

	stored.Title = "Renamed"
	stored.Slug = "renamed"
	stored.Status = film.StatusWatched
	require.NoError(t, repo.Update(context.Background(), stored))

	found, err := repo.FindBySlug(context.Background(), "ikiru")
	require.NoError(t, err)
	assert.Equal(t, "Ikiru", found.Title)
	assert.Equal(t, film.StatusWatched, found.Status)

	missing := &film.Film{ID: uuid.New()}
	assert.True(t, apperr.HasCode(repo.Update(context.Background(), missing), apperr.CodeNotFound))
}

func TestMemoryRepository_SnapshotRestore(t *testing.T) {
	repo := film.NewMemoryRepository()
	kept := storeFilm(t, repo, &film.Film{Title: "Kept", Slug: "kept", Status: film.StatusToWatch})

	snapshot := repo.Snapshot()
	storeFilm(t, repo, &film.Film{Title: "Dropped", Slug: "dropped", Status: film.StatusToWatch})
	kept.Status = film.StatusWatched
	require.NoError(t, repo.Update(context.Background(), kept))

	repo.Restore(snapshot)

	_, err := repo.FindBySlug(context.Background(), "dropped")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	found, err := repo.FindByID(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.Equal(t, film.StatusToWatch, found.Status)
}
