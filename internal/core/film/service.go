// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/validate"
	"github.com/taibuivan/cinepocket/pkg/pointer"
	"github.com/taibuivan/cinepocket/pkg/slice"
	"github.com/taibuivan/cinepocket/pkg/slug"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business rules that touch a single film.
//
// Every read-modify-write runs through the [TxRunner] and locks the film row,
// so concurrent edits of the same film never lose an update.
type Service struct {
	repo   Repository
	tx     TxRunner
	cache  FilterCache
	logger *slog.Logger
}

// NewService constructs a film [Service]. A nil cache disables caching.
func NewService(repo Repository, tx TxRunner, cache FilterCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopFilterCache{}
	}
	return &Service{
		repo:   repo,
		tx:     tx,
		cache:  cache,
		logger: logger,
	}
}

// # Film Lookups

// GetByID fetches a film by UUID. A malformed id is reported as NotFound.
func (service *Service) GetByID(context context.Context, id string) (*Film, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Film")
	}
	return service.repo.FindByID(context, id)
}

// GetBySlug fetches a film by its URL slug, normalizing the input first.
func (service *Service) GetBySlug(context context.Context, filmSlug string) (*Film, error) {
	normalized := slug.From(filmSlug)
	if normalized == "" {
		return nil, apperr.NotFound("Film")
	}
	return service.repo.FindBySlug(context, normalized)
}

// ListTitles returns the id/title/slug/status projection of every film.
func (service *Service) ListTitles(context context.Context) ([]*Title, error) {
	return service.repo.ListTitles(context)
}

// # Film Management

/*
CreateFilm validates and persists a new film.

Description: The slug is derived from the caller-supplied slug when present,
otherwise from the title, and is never recomputed afterwards. Status
defaults to to_watch.

Parameters:
  - context: context.Context
  - film: *Film (ID, Slug and timestamps are assigned here)

Returns:
  - error: ValidationError on bad input, Conflict on a duplicate slug
*/
func (service *Service) CreateFilm(context context.Context, film *Film) error {
	film.Title = strings.TrimSpace(film.Title)
	if film.Status == "" {
		film.Status = StatusToWatch
	}

	// Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, film.Title).MaxLen(FieldTitle, film.Title, 300)
	validator.OneOf(FieldStatus, string(film.Status),
		string(StatusToWatch),
		string(StatusWatched),
		string(StatusToRewatch),
	)
	if film.Rating != nil {
		validator.Range(FieldRating, *film.Rating, MinRating, MaxRating)
	}

	// Slug derivation
	source := film.Slug
	if strings.TrimSpace(source) == "" {
		source = film.Title
	}
	film.Slug = slug.From(source)
	if film.Title != "" {
		validator.Custom(FieldSlug, film.Slug == "", "Title must contain at least one letter or digit")
	}

	if err := validator.Err(); err != nil {
		return err
	}

	film.ID = uuid.New()
	err := service.tx.InTx(context, "create_film", func(films Repository) error {
		return films.Create(context, film)
	})
	if err != nil {
		return err
	}
	service.invalidate(context)

	service.logger.Info("film_created",
		slog.String("film_id", film.ID),
		slog.String("slug", film.Slug),
	)

	return nil
}

// ParseFlag maps a route segment to a [Flag].
func ParseFlag(name string) (Flag, error) {
	switch Flag(strings.ToLower(strings.TrimSpace(name))) {
	case FlagLiked, "like":
		return FlagLiked, nil
	case FlagHyped, "hype":
		return FlagHyped, nil
	}
	return "", validate.RequiredError(FieldFlag, "Must be one of: liked, hyped")
}

/*
ToggleFlag flips a tri-state flag: nil and false become true, true becomes false.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - flag: Flag

Returns:
  - *Film: The updated film
  - error: NotFound if the film does not exist
*/
func (service *Service) ToggleFlag(context context.Context, id string, flag Flag) (*Film, error) {
	if flag != FlagLiked && flag != FlagHyped {
		return nil, validate.RequiredError(FieldFlag, "Must be one of: liked, hyped")
	}

	film, err := service.mutate(context, "toggle_"+string(flag), id, func(film *Film) error {
		target := &film.Liked
		if flag == FlagHyped {
			target = &film.Hyped
		}
		*target = pointer.To(!pointer.Val(*target))
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("film_flag_toggled",
		slog.String("film_id", film.ID),
		slog.String("flag", string(flag)),
	)
	return film, nil
}

/*
AppendRecommendation adds a free-text recommendation to the film.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - text: string

Returns:
  - []string: The full recommendation sequence after the append
  - error: ValidationError on blank text, NotFound if the film is missing
*/
func (service *Service) AppendRecommendation(context context.Context, id string, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validate.RequiredError(FieldText, "This field is required")
	}

	film, err := service.mutate(context, "append_recommendation", id, func(film *Film) error {
		film.Recommendations = append(film.Recommendations, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return film.Recommendations, nil
}

/*
ReplacePlatforms overwrites the film's platform list. Nothing is merged.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - platforms: []Platform (May be empty)

Returns:
  - []Platform: The stored platform list
  - error: NotFound if the film is missing
*/
func (service *Service) ReplacePlatforms(context context.Context, id string, platforms []Platform) ([]Platform, error) {
	replacement := slice.Map(platforms, func(platform Platform) Platform {
		return Platform{
			ID:    strings.TrimSpace(platform.ID),
			Label: strings.TrimSpace(platform.Label),
		}
	})
	if replacement == nil {
		replacement = []Platform{}
	}

	film, err := service.mutate(context, "replace_platforms", id, func(film *Film) error {
		film.Platform = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return film.Platform, nil
}

/*
UpdateReview applies a partial review update.

Description: At least one field must be supplied. A rating must be an
integral number in [MinRating, MaxRating]. Validation happens before the
film is touched so an invalid request never mutates anything.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - patch: ReviewPatch

Returns:
  - *Film: The updated film
  - error: ValidationError or NotFound
*/
func (service *Service) UpdateReview(context context.Context, id string, patch ReviewPatch) (*Film, error) {
	if patch.ShortReview == nil && patch.LongReview == nil && patch.Rating == nil {
		return nil, apperr.ValidationError("Provide shortReview, longReview or rating")
	}

	var rating *int
	if patch.Rating != nil {
		parsed, err := ParseRating(*patch.Rating)
		if err != nil {
			return nil, err
		}
		rating = &parsed
	}

	return service.mutate(context, "update_review", id, func(film *Film) error {
		if patch.ShortReview != nil {
			film.ShortReview = copyPtr(patch.ShortReview)
		}
		if patch.LongReview != nil {
			film.LongReview = copyPtr(patch.LongReview)
		}
		if rating != nil {
			film.Rating = rating
		}
		return nil
	})
}

// ParseRating checks that value is an integral rating in range.
func ParseRating(value float64) (int, error) {
	if value != math.Trunc(value) || value < MinRating || value > MaxRating {
		return 0, validate.RequiredError(FieldRating, "Must be a whole number between 1 and 10")
	}
	return int(value), nil
}

/*
UpdateCredits applies a partial update to director, origin and actors.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - patch: CreditsPatch (Director or Actors is required)

Returns:
  - *Film: The updated film
  - error: ValidationError or NotFound
*/
func (service *Service) UpdateCredits(context context.Context, id string, patch CreditsPatch) (*Film, error) {
	hasDirector := patch.Director != nil && strings.TrimSpace(*patch.Director) != ""
	if !hasDirector && patch.Actors == nil {
		return nil, apperr.ValidationError("Provide a director, actors, or both")
	}

	var actors []string
	if patch.Actors != nil {
		actors = slice.TrimNonBlank(*patch.Actors)
		if actors == nil {
			actors = []string{}
		}
	}

	return service.mutate(context, "update_credits", id, func(film *Film) error {
		if hasDirector {
			film.Director = pointer.To(strings.TrimSpace(*patch.Director))
		}
		if patch.Origin != nil {
			film.Origin = pointer.To(strings.TrimSpace(*patch.Origin))
		}
		if actors != nil {
			film.Actors = actors
		}
		return nil
	})
}

// # Filter Menus

/*
Filters returns the sorted distinct directors, origins, tags and platforms.

Description: Served from the [FilterCache] when populated. Cache failures
are logged and the store is queried instead.

Parameters:
  - context: context.Context

Returns:
  - *Filters
  - error: Storage failures
*/
func (service *Service) Filters(context context.Context) (*Filters, error) {
	cached, err := service.cache.Get(context)
	if err != nil {
		service.logger.Warn("filter_cache_read_failed", slog.Any("error", err))
	}
	if cached != nil {
		return cached, nil
	}

	filters, err := service.repo.Distinct(context)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, filters); err != nil {
		service.logger.Warn("filter_cache_write_failed", slog.Any("error", err))
	}
	return filters, nil
}

// InvalidateFilters drops the cached filter menus after a film write made
// outside this service.
func (service *Service) InvalidateFilters(context context.Context) {
	service.invalidate(context)
}

// # Helpers

// mutate locks the film, applies change and persists it in one transaction.
func (service *Service) mutate(context context.Context, operation, id string, change func(film *Film) error) (*Film, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Film")
	}

	var updated *Film
	err := service.tx.InTx(context, operation, func(films Repository) error {
		film, err := films.Lock(context, id)
		if err != nil {
			return err
		}
		if err := change(film); err != nil {
			return err
		}
		if err := films.Update(context, film); err != nil {
			return err
		}
		updated = film
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.invalidate(context)
	return updated, nil
}

func (service *Service) invalidate(context context.Context) {
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.Warn("filter_cache_invalidate_failed", slog.Any("error", err))
	}
}
