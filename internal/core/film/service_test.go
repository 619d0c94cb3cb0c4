// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/pkg/pointer"
)

// directTx runs the function against the shared repository without isolation.
type directTx struct {
	repo film.Repository
}

func (tx directTx) InTx(_ context.Context, _ string, fn func(film.Repository) error) error {
	return fn(tx.repo)
}

// recordingCache is an in-memory [film.FilterCache] that counts invalidations.
type recordingCache struct {
	stored        *film.Filters
	invalidations int
}

func (cache *recordingCache) Get(context.Context) (*film.Filters, error) { return cache.stored, nil }
func (cache *recordingCache) Set(_ context.Context, filters *film.Filters) error {
	cache.stored = filters
	return nil
}
func (cache *recordingCache) Invalidate(context.Context) error {
	cache.stored = nil
	cache.invalidations++
	return nil
}

func newService(t *testing.T) (*film.Service, *film.MemoryRepository, *recordingCache) {
	t.Helper()
	repo := film.NewMemoryRepository()
	cache := &recordingCache{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return film.NewService(repo, directTx{repo: repo}, cache, logger), repo, cache
}

func createFilm(t *testing.T, service *film.Service, title string) *film.Film {
	t.Helper()
	created := &film.Film{Title: title}
	require.NoError(t, service.CreateFilm(context.Background(), created))
	return created
}

/*
TestCreateFilm_DerivesSlugAndDefaults checks identity, slug and status defaults.
*/
func TestCreateFilm_DerivesSlugAndDefaults(t *testing.T) {
	service, _, _ := newService(t)

	created := createFilm(t, service, "  Dune: Part Two ")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune: Part Two", created.Title)
	assert.Equal(t, "dune-part-two", created.Slug)
	assert.Equal(t, film.StatusToWatch, created.Status)
	assert.Equal(t, 0, created.TimesWatched())
	assert.NotNil(t, created.Recommendations)
}

func TestCreateFilm_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input film.Film
	}{
		{"missing_title", film.Film{}},
		{"blank_title", film.Film{Title: "   "}},
		{"punctuation_only", film.Film{Title: "!!!"}},
		{"bad_status", film.Film{Title: "Heat", Status: "abandoned"}},
		{"rating_out_of_range", film.Film{Title: "Heat", Rating: pointer.To(11)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newService(t)

			input := tt.input
			err := service.CreateFilm(context.Background(), &input)

			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
			titles, _ := repo.ListTitles(context.Background())
			assert.Empty(t, titles)
		})
	}
}

func TestCreateFilm_SlugCollisionIsConflict(t *testing.T) {
	service, _, _ := newService(t)
	createFilm(t, service, "Léon")

	err := service.CreateFilm(context.Background(), &film.Film{Title: "Leon"})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestGetByID_MalformedIsNotFound(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.GetByID(context.Background(), "not-a-uuid")

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestGetBySlug_NormalizesInput(t *testing.T) {
	service, _, _ := newService(t)
	created := createFilm(t, service, "Amélie")

	found, err := service.GetBySlug(context.Background(), "Amelie")

	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

/*
TestToggleFlag_Idempotence verifies that two toggles return the flag to true
after the first one set it from nil.
*/
func TestToggleFlag_Idempotence(t *testing.T) {
	for _, flag := range []film.Flag{film.FlagLiked, film.FlagHyped} {
		t.Run(string(flag), func(t *testing.T) {
			service, _, _ := newService(t)
			created := createFilm(t, service, "Paris, Texas")
			ctx := context.Background()

			value := func(f *film.Film) *bool {
				if flag == film.FlagLiked {
					return f.Liked
				}
				return f.Hyped
			}

			first, err := service.ToggleFlag(ctx, created.ID, flag)
			require.NoError(t, err)
			require.NotNil(t, value(first))
			assert.True(t, *value(first))

			second, err := service.ToggleFlag(ctx, created.ID, flag)
			require.NoError(t, err)
			assert.False(t, *value(second))

			third, err := service.ToggleFlag(ctx, created.ID, flag)
			require.NoError(t, err)
			assert.True(t, *value(third))
		})
	}
}

func TestToggleFlag_FalseBecomesTrue(t *testing.T) {
	service, _, _ := newService(t)
	created := &film.Film{Title: "Stalker", Liked: pointer.To(false)}
	require.NoError(t, service.CreateFilm(context.Background(), created))

	updated, err := service.ToggleFlag(context.Background(), created.ID, film.FlagLiked)

	require.NoError(t, err)
	assert.True(t, *updated.Liked)
}

func TestToggleFlag_Errors(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.ToggleFlag(context.Background(), "0190b3c4-5d6e-7f80-9a1b-2c3d4e5f6a7b", film.FlagLiked)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = film.ParseFlag("starred")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	flag, err := film.ParseFlag("Hype")
	require.NoError(t, err)
	assert.Equal(t, film.FlagHyped, flag)
}

func TestAppendRecommendation(t *testing.T) {
	service, _, _ := newService(t)
	created := createFilm(t, service, "Perfect Days")
	ctx := context.Background()

	_, err := service.AppendRecommendation(ctx, created.ID, "  ")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.AppendRecommendation(ctx, created.ID, "from Anna")
	require.NoError(t, err)
	recommendations, err := service.AppendRecommendation(ctx, created.ID, "from Tom")
	require.NoError(t, err)

	assert.Equal(t, []string{"from Anna", "from Tom"}, recommendations)
}

/*
TestReplacePlatforms_FullReplacement makes sure a second call leaves no trace
of the first payload.
*/
func TestReplacePlatforms_FullReplacement(t *testing.T) {
	service, _, _ := newService(t)
	created := createFilm(t, service, "Aftersun")
	ctx := context.Background()

	_, err := service.ReplacePlatforms(ctx, created.ID, []film.Platform{{ID: "nf", Label: "Netflix"}})
	require.NoError(t, err)

	second, err := service.ReplacePlatforms(ctx, created.ID, []film.Platform{{ID: "mubi", Label: "MUBI"}})
	require.NoError(t, err)
	assert.Equal(t, []film.Platform{{ID: "mubi", Label: "MUBI"}}, second)

	stored, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []film.Platform{{ID: "mubi", Label: "MUBI"}}, stored.Platform)

	cleared, err := service.ReplacePlatforms(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)
}

func TestUpdateReview(t *testing.T) {
	t.Run("rating_out_of_range_does_not_mutate", func(t *testing.T) {
		service, _, _ := newService(t)
		created := createFilm(t, service, "Past Lives")

		_, err := service.UpdateReview(context.Background(), created.ID, film.ReviewPatch{
			ShortReview: pointer.To("lovely"),
			Rating:      pointer.To(11.0),
		})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

		stored, err := service.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Rating)
		assert.Nil(t, stored.ShortReview)
	})

	t.Run("empty_patch", func(t *testing.T) {
		service, _, _ := newService(t)
		created := createFilm(t, service, "Past Lives")

		_, err := service.UpdateReview(context.Background(), created.ID, film.ReviewPatch{})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("fractional_rating", func(t *testing.T) {
		service, _, _ := newService(t)
		created := createFilm(t, service, "Past Lives")

		_, err := service.UpdateReview(context.Background(), created.ID, film.ReviewPatch{Rating: pointer.To(7.5)})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("partial_update", func(t *testing.T) {
		service, _, _ := newService(t)
		created := createFilm(t, service, "Past Lives")
		ctx := context.Background()

		_, err := service.UpdateReview(ctx, created.ID, film.ReviewPatch{ShortReview: pointer.To("quiet"), Rating: pointer.To(9.0)})
		require.NoError(t, err)

		updated, err := service.UpdateReview(ctx, created.ID, film.ReviewPatch{LongReview: pointer.To("A long one")})
		require.NoError(t, err)

		assert.Equal(t, "quiet", *updated.ShortReview)
		assert.Equal(t, "A long one", *updated.LongReview)
		assert.Equal(t, 9, *updated.Rating)
	})
}

func TestUpdateCredits(t *testing.T) {
	service, _, _ := newService(t)
	created := createFilm(t, service, "Drive My Car")
	ctx := context.Background()

	_, err := service.UpdateCredits(ctx, created.ID, film.CreditsPatch{Origin: pointer.To("Japan")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "origin alone is not enough")

	_, err = service.UpdateCredits(ctx, created.ID, film.CreditsPatch{
		Director: pointer.To("Ryusuke Hamaguchi"),
		Origin:   pointer.To("Japan"),
	})
	require.NoError(t, err)

	updated, err := service.UpdateCredits(ctx, created.ID, film.CreditsPatch{
		Actors: &[]string{"Hidetoshi Nishijima", "Toko Miura"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ryusuke Hamaguchi", *updated.Director)
	assert.Equal(t, "Japan", *updated.Origin)
	assert.Equal(t, []string{"Hidetoshi Nishijima", "Toko Miura"}, updated.Actors)
}

/*
TestFilters_CacheLifecycle checks that reads populate the cache and writes clear it.
*/
func TestFilters_CacheLifecycle(t *testing.T) {
	service, _, cache := newService(t)
	ctx := context.Background()

	created := createFilm(t, service, "Decision to Leave")
	_, err := service.UpdateCredits(ctx, created.ID, film.CreditsPatch{Director: pointer.To("Park Chan-wook")})
	require.NoError(t, err)

	filters, err := service.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Park Chan-wook"}, filters.Directors)
	require.NotNil(t, cache.stored)

	before := cache.invalidations
	_, err = service.ReplacePlatforms(ctx, created.ID, []film.Platform{{ID: "prime", Label: "Prime Video"}})
	require.NoError(t, err)

	assert.Equal(t, before+1, cache.invalidations)
	assert.Nil(t, cache.stored)

	filters, err = service.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Prime Video"}, filters.Platforms)
}
