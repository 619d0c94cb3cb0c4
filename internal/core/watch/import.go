// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/pkg/slice"
	"github.com/taibuivan/cinepocket/pkg/slug"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// # Watchlist Import

// ImportEntry is one film of an imported watchlist file.
type ImportEntry struct {
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Director        *string         `json:"director"`
	Origin          *string         `json:"origin"`
	Actors          []string        `json:"actors"`
	Tags            []string        `json:"tags"`
	Platform        []film.Platform `json:"platform"`
	Recommendations []string        `json:"recommendations"`
}

// ImportReport lists the slugs that were created and those already stored.
type ImportReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

/*
ImportWatchlist creates the films of entries that are not stored yet and
appends them to the Watchlist.

Description: Entries are matched by slug (the supplied slug, or one derived
from the title). Existing films are skipped and left where they are. The
whole import is one unit of work: an invalid entry aborts it entirely.

Parameters:
  - context: context.Context
  - entries: []ImportEntry

Returns:
  - *ImportReport: Created and skipped slugs, in file order
  - error: ValidationError naming the first invalid entry, or storage failures
*/
func (engine *Engine) ImportWatchlist(context context.Context, entries []ImportEntry) (*ImportReport, error) {
	report := &ImportReport{Created: []string{}, Skipped: []string{}}

	err := engine.uow.Do(context, "import_watchlist", func(stores Stores) error {
		watchlist, _, err := stores.Lists.GetOrCreateByType(context, list.TypeWatchlist, list.TypeWatchlist.DefaultTitle())
		if err != nil {
			return err
		}

		for index, entry := range entries {
			title := strings.TrimSpace(entry.Title)
			source := entry.Slug
			if strings.TrimSpace(source) == "" {
				source = title
			}
			filmSlug := slug.From(source)
			if title == "" || filmSlug == "" {
				return apperr.ValidationError(fmt.Sprintf("Entry %d needs a title with at least one letter or digit", index))
			}

			if _, err := stores.Films.FindBySlug(context, filmSlug); err == nil {
				report.Skipped = append(report.Skipped, filmSlug)
				continue
			} else if !apperr.HasCode(err, apperr.CodeNotFound) {
				return err
			}

			created := &film.Film{
				ID:              uuid.New(),
				Title:           title,
				Slug:            filmSlug,
				Status:          film.StatusToWatch,
				Director:        entry.Director,
				Origin:          entry.Origin,
				Actors:          slice.TrimNonBlank(entry.Actors),
				Tags:            slice.TrimNonBlank(entry.Tags),
				Platform:        entry.Platform,
				Recommendations: slice.TrimNonBlank(entry.Recommendations),
			}
			if err := stores.Films.Create(context, created); err != nil {
				return err
			}
			if _, err := stores.Lists.AddFilm(context, watchlist.ID, created.ID); err != nil {
				return err
			}
			report.Created = append(report.Created, filmSlug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	engine.committed(context)
	engine.logger.Info("watchlist_imported",
		slog.Int("created", len(report.Created)),
		slog.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}
