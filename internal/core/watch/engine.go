// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package watch keeps a film's status consistent with its list membership.

It implements the two viewing intents of the application:

  - Add to watchlist: the film joins the Watchlist; a watched film becomes to_rewatch.
  - Mark as watched: the film leaves the Watchlist, joins the SeenList and
    records one more viewing date.

Each operation runs in a single [UnitOfWork]. A failure at any step rolls back
every previous step, including a film created while resolving the reference,
so a film is never watched while it sits in the Watchlist.
*/
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
)

// FilterInvalidator is notified after every committed film write.
type FilterInvalidator interface {
	InvalidateFilters(context context.Context)
}

// # Engine

// Engine applies status transitions and membership changes atomically.
type Engine struct {
	uow     UnitOfWork
	filters FilterInvalidator
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine constructs an [Engine]. filters may be nil.
func NewEngine(uow UnitOfWork, filters FilterInvalidator, logger *slog.Logger) *Engine {
	return &Engine{
		uow:     uow,
		filters: filters,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for watch dates.
func (engine *Engine) WithClock(now func() time.Time) *Engine {
	engine.now = now
	return engine
}

// WatchlistResult is returned by [Engine.AddToWatchlist].
type WatchlistResult struct {
	Message string     `json:"message"`
	Film    *film.Film `json:"film"`
}

// WatchedResult is returned by [Engine.MarkAsWatched].
type WatchedResult struct {
	Message      string     `json:"message"`
	Film         *film.Film `json:"film"`
	TimesWatched int        `json:"timesWatched"`
}

/*
AddToWatchlist puts a film in the Watchlist.

Description: Resolves the reference (creating the film with to_watch when
needed), turns a watched film into to_rewatch and appends it to the
singleton Watchlist, creating that list on first use. A film already in the
Watchlist yields AlreadyInList and nothing is written.

Parameters:
  - context: context.Context
  - ref: film.Ref

Returns:
  - *WatchlistResult: The film and a confirmation message
  - error: ValidationError, NotFound, Conflict or AlreadyInList
*/
func (engine *Engine) AddToWatchlist(context context.Context, ref film.Ref) (*WatchlistResult, error) {
	var result *WatchlistResult

	err := engine.uow.Do(context, "add_to_watchlist", func(stores Stores) error {

		// 1. Resolve or create the film
		target, err := engine.resolve(context, stores.Films, ref, film.StatusToWatch)
		if err != nil {
			return err
		}

		// 2. Fetch or create the singleton Watchlist
		watchlist, _, err := stores.Lists.GetOrCreateByType(context, list.TypeWatchlist, list.TypeWatchlist.DefaultTitle())
		if err != nil {
			return err
		}

		// 3. Append unless already present
		added, err := stores.Lists.AddFilm(context, watchlist.ID, target.ID)
		if err != nil {
			return err
		}
		if !added {
			return apperr.AlreadyInList(watchlist.Title)
		}

		// 4. A seen film re-entering the watchlist is pending a rewatch
		if target.Status == film.StatusWatched {
			target.Status = film.StatusToRewatch
			if err := stores.Films.Update(context, target); err != nil {
				return err
			}
		}

		result = &WatchlistResult{
			Message: "Film added to " + watchlist.Title,
			Film:    target,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	engine.committed(context)
	engine.logger.Info("film_added_to_watchlist",
		slog.String("film_id", result.Film.ID),
		slog.String("status", string(result.Film.Status)),
	)
	return result, nil
}

/*
MarkAsWatched records a viewing of a film.

Description: Resolves the reference (creating the film with watched when
needed), removes it from the Watchlist if present, adds it to the SeenList
with set semantics, sets status to watched and appends the current time to
the watch dates. Every successful call adds exactly one watch date.

Parameters:
  - context: context.Context
  - ref: film.Ref

Returns:
  - *WatchedResult: The film, a message and the number of viewings
  - error: ValidationError, NotFound or Conflict
*/
func (engine *Engine) MarkAsWatched(context context.Context, ref film.Ref) (*WatchedResult, error) {
	var result *WatchedResult
	var leftWatchlist bool

	err := engine.uow.Do(context, "mark_as_watched", func(stores Stores) error {

		// 1. Resolve or create the film
		target, err := engine.resolve(context, stores.Films, ref, film.StatusWatched)
		if err != nil {
			return err
		}

		// 2. Leave the Watchlist if it exists and holds the film
		watchlist, err := stores.Lists.FindByType(context, list.TypeWatchlist)
		switch {
		case err == nil:
			if leftWatchlist, err = stores.Lists.RemoveFilm(context, watchlist.ID, target.ID); err != nil {
				return err
			}
		case !apperr.HasCode(err, apperr.CodeNotFound):
			return err
		}

		// 3. Join the SeenList once
		seenList, _, err := stores.Lists.GetOrCreateByType(context, list.TypeSeenList, list.TypeSeenList.DefaultTitle())
		if err != nil {
			return err
		}
		if _, err := stores.Lists.AddFilm(context, seenList.ID, target.ID); err != nil {
			return err
		}

		// 4. Record the viewing
		target.Status = film.StatusWatched
		target.WatchedDates = append(target.WatchedDates, engine.now().UTC())
		if err := stores.Films.Update(context, target); err != nil {
			return err
		}

		result = &WatchedResult{
			Message:      "Film marked as watched",
			Film:         target,
			TimesWatched: target.TimesWatched(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	engine.committed(context)
	engine.logger.Info("film_marked_watched",
		slog.String("film_id", result.Film.ID),
		slog.Int("times_watched", result.TimesWatched),
		slog.Bool("left_watchlist", leftWatchlist),
	)
	return result, nil
}

// # Helpers

// resolve runs the film resolver and locks an existing film for the update.
func (engine *Engine) resolve(context context.Context, films film.Repository, ref film.Ref, createStatus film.Status) (*film.Film, error) {
	target, created, err := film.Resolve(context, films, ref, createStatus)
	if err != nil {
		return nil, err
	}
	if created {
		return target, nil
	}
	return films.Lock(context, target.ID)
}

// committed runs the post-commit hooks.
func (engine *Engine) committed(context context.Context) {
	if engine.filters != nil {
		engine.filters.InvalidateFilters(context)
	}
}
