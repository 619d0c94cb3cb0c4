// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package film defines the film record and everything that reads or edits a
single film in isolation.

It manages what the user knows about a film: its watch status, review data,
credits, streaming platforms and the number of times it was watched.

Core Responsibility:

  - Catalogue: Film identity (UUID) and its unique URL slug.
  - Review: Ratings, short/long reviews and the liked/hyped flags.
  - Discovery: Distinct directors, origins, tags and platforms for filter menus.

List membership is owned by the list package; the watch package keeps the two
consistent.
*/
package film

import (
	"time"
)

// # Domain Enums

// Status represents where a film stands in the user's viewing cycle.
type Status string

const (
	// StatusToWatch is the default for a film that has never been watched.
	StatusToWatch Status = "to_watch"

	// StatusWatched indicates the film has been watched at least once.
	StatusWatched Status = "watched"

	// StatusToRewatch marks a previously watched film that re-entered the watchlist.
	StatusToRewatch Status = "to_rewatch"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusToWatch, StatusWatched, StatusToRewatch:
		return true
	}
	return false
}

// Flag names a tri-state boolean attribute that can be toggled.
type Flag string

const (
	FlagLiked Flag = "liked"
	FlagHyped Flag = "hyped"
)

// # Core Entities

// Film is the central record of the domain.
type Film struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Status      Status  `json:"status"`
	ShortReview *string `json:"shortReview,omitempty"`
	LongReview  *string `json:"longReview,omitempty"`

	// Liked and Hyped are tri-state: nil means the user never answered.
	Liked  *bool `json:"liked,omitempty"`
	Hyped  *bool `json:"hyped,omitempty"`
	Rating *int  `json:"rating,omitempty"` // 1..10

	Recommendations []string   `json:"recommendations"`
	Origin          *string    `json:"origin,omitempty"`
	Director        *string    `json:"director,omitempty"`
	Actors          []string   `json:"actors"`
	Platform        []Platform `json:"platform"`
	Tags            []string   `json:"tags"`

	// WatchedDates holds one entry per completed viewing, oldest first.
	WatchedDates []time.Time `json:"watchedDates"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimesWatched is the authoritative rewatch counter.
func (film *Film) TimesWatched() int {
	return len(film.WatchedDates)
}

// normalize replaces nil collections with empty ones so they encode as [].
func (film *Film) normalize() {
	if film.Recommendations == nil {
		film.Recommendations = []string{}
	}
	if film.Actors == nil {
		film.Actors = []string{}
	}
	if film.Platform == nil {
		film.Platform = []Platform{}
	}
	if film.Tags == nil {
		film.Tags = []string{}
	}
	if film.WatchedDates == nil {
		film.WatchedDates = []time.Time{}
	}
}

// clone returns a deep copy of the film.
func (film *Film) clone() *Film {
	copied := *film
	copied.ShortReview = copyPtr(film.ShortReview)
	copied.LongReview = copyPtr(film.LongReview)
	copied.Liked = copyPtr(film.Liked)
	copied.Hyped = copyPtr(film.Hyped)
	copied.Rating = copyPtr(film.Rating)
	copied.Origin = copyPtr(film.Origin)
	copied.Director = copyPtr(film.Director)
	copied.Recommendations = append([]string{}, film.Recommendations...)
	copied.Actors = append([]string{}, film.Actors...)
	copied.Platform = append([]Platform{}, film.Platform...)
	copied.Tags = append([]string{}, film.Tags...)
	copied.WatchedDates = append([]time.Time{}, film.WatchedDates...)
	return &copied
}

func copyPtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// Platform is a streaming service where the film can be watched.
type Platform struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Title is the lightweight projection used by film pickers.
type Title struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status Status `json:"status"`
}

// # Search & Filtering

// Filters holds the sorted distinct values offered by the filter menus.
type Filters struct {
	Directors []string `json:"directors"`
	Origins   []string `json:"origins"`
	Tags      []string `json:"tags"`
	Platforms []string `json:"platforms"`
}

// # Partial Updates

// ReviewPatch carries the optional fields of a review update.
// Rating is kept as a float so non-integral input can be rejected.
type ReviewPatch struct {
	ShortReview *string
	LongReview  *string
	Rating      *float64
}

// CreditsPatch carries the optional fields of a credits update.
type CreditsPatch struct {
	Director *string
	Origin   *string
	Actors   *[]string
}

// # Field Identifiers

// Field names used in validation details. They match the JSON contract.
const (
	FieldID              = "id"
	FieldFilmID          = "filmId"
	FieldTitle           = "title"
	FieldSlug            = "slug"
	FieldStatus          = "status"
	FieldShortReview     = "shortReview"
	FieldLongReview      = "longReview"
	FieldRating          = "rating"
	FieldText            = "text"
	FieldPlatforms       = "platforms"
	FieldDirector        = "director"
	FieldOrigin          = "origin"
	FieldActors          = "actors"
	FieldFlag            = "flag"
	FieldMessage         = "message"
	FieldRecommendations = "recommendations"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)
