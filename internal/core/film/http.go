// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package film provides the HTTP interface for reading and editing films.

# Routing Strategy

  - Lookups: GET by id, by slug, the title picker and the filter menus.
  - Edits: PUT endpoints that each change one aspect of a film (flags,
    recommendations, platforms, review, credits).

Watchlist and seen-list transitions are registered on the same router by the
watch package.
*/
package film

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cinepocket/internal/platform/request"
	"github.com/taibuivan/cinepocket/internal/platform/respond"
	"github.com/taibuivan/cinepocket/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for film management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new film [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the film endpoints to router (mounted at /films).
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Lookups
	router.Post("/", handler.createFilm)
	router.Get("/all-titles", handler.listTitles)
	router.Get("/filters-data", handler.filters)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Get("/id/{id}", handler.getByID)

	// ## Flags
	router.Put("/toggle-like/{id}", handler.toggle(FlagLiked))
	router.Put("/toggle-hype/{id}", handler.toggle(FlagHyped))
	router.Put("/{id}/toggle/{flag}", handler.toggleNamed)

	// ## Edits
	router.Put("/{id}/add-reco", handler.addRecommendation)
	router.Put("/{id}/update-platforms", handler.updatePlatforms)
	router.Put("/{id}/update-review", handler.updateReview)
	router.Put("/{id}/update-infos", handler.updateCredits)
}

// # Request Payloads

type createFilmRequest struct {
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Status          Status          `json:"status"`
	ShortReview     *string         `json:"shortReview"`
	LongReview      *string         `json:"longReview"`
	Liked           *bool           `json:"liked"`
	Hyped           *bool           `json:"hyped"`
	Rating          json.RawMessage `json:"rating"`
	Recommendations []string        `json:"recommendations"`
	Origin          *string         `json:"origin"`
	Director        *string         `json:"director"`
	Actors          []string        `json:"actors"`
	Platform        []Platform      `json:"platform"`
	Tags            []string        `json:"tags"`
}

type recommendationRequest struct {
	Text json.RawMessage `json:"text"`
}

type platformsRequest struct {
	Platforms json.RawMessage `json:"platforms"`
}

type reviewRequest struct {
	ShortReview json.RawMessage `json:"shortReview"`
	LongReview  json.RawMessage `json:"longReview"`
	Rating      json.RawMessage `json:"rating"`
}

type creditsRequest struct {
	Director json.RawMessage `json:"director"`
	Origin   json.RawMessage `json:"origin"`
	Actors   json.RawMessage `json:"actors"`
}

// # Lookup Endpoints

/*
POST /api/v1/films.

Description: Creates a film. Only the title is required; the slug is
derived from it unless supplied.

Response:
  - 201: Film
  - 400: VALIDATION_ERROR
  - 409: CONFLICT (slug taken)
*/
func (handler *Handler) createFilm(writer http.ResponseWriter, request *http.Request) {
	var payload createFilmRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	film := &Film{
		Title:           payload.Title,
		Slug:            payload.Slug,
		Status:          payload.Status,
		ShortReview:     payload.ShortReview,
		LongReview:      payload.LongReview,
		Liked:           payload.Liked,
		Hyped:           payload.Hyped,
		Recommendations: payload.Recommendations,
		Origin:          payload.Origin,
		Director:        payload.Director,
		Actors:          payload.Actors,
		Platform:        payload.Platform,
		Tags:            payload.Tags,
	}

	if validate.IsPresent(payload.Rating) {
		rating, err := decodeRating(payload.Rating)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		film.Rating = &rating
	}

	if err := handler.service.CreateFilm(request.Context(), film); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, film)
}

// GET /api/v1/films/all-titles.
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	titles, err := handler.service.ListTitles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, titles)
}

// GET /api/v1/films/filters-data.
func (handler *Handler) filters(writer http.ResponseWriter, request *http.Request) {
	filters, err := handler.service.Filters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, filters)
}

// GET /api/v1/films/slug/{slug}.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	film, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

// GET /api/v1/films/id/{id}.
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	film, err := handler.service.GetByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

// # Edit Endpoints

// toggle serves PUT /api/v1/films/toggle-like/{id} and /toggle-hype/{id}.
func (handler *Handler) toggle(flag Flag) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		film, err := handler.service.ToggleFlag(request.Context(), requestutil.Param(request, "id"), flag)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, film)
	}
}

// PUT /api/v1/films/{id}/toggle/{flag}.
func (handler *Handler) toggleNamed(writer http.ResponseWriter, request *http.Request) {
	flag, err := ParseFlag(requestutil.Param(request, "flag"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.toggle(flag)(writer, request)
}

/*
PUT /api/v1/films/{id}/add-reco.

Request:
  - text: string (required, non-empty)

Response:
  - 200: {message, recommendations}
*/
func (handler *Handler) addRecommendation(writer http.ResponseWriter, request *http.Request) {
	var payload recommendationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !validate.IsPresent(payload.Text) {
		respond.Error(writer, request, validate.RequiredError(FieldText, "This field is required"))
		return
	}

	text, err := validate.String(FieldText, payload.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recommendations, err := handler.service.AppendRecommendation(request.Context(), requestutil.Param(request, "id"), text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{
		FieldMessage:         "Recommendation added",
		FieldRecommendations: recommendations,
	})
}

/*
PUT /api/v1/films/{id}/update-platforms.

Request:
  - platforms: [{id, label}] (required, may be empty; replaces the stored list)

Response:
  - 200: {message, platforms}
*/
func (handler *Handler) updatePlatforms(writer http.ResponseWriter, request *http.Request) {
	var payload platformsRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var platforms []Platform
	if err := validate.Array(FieldPlatforms, payload.Platforms, &platforms); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.service.ReplacePlatforms(request.Context(), requestutil.Param(request, "id"), platforms)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{
		FieldMessage:   "Platforms updated",
		FieldPlatforms: stored,
	})
}

/*
PUT /api/v1/films/{id}/update-review.

Request:
  - shortReview: string (optional)
  - longReview: string (optional)
  - rating: number or numeric string in [1,10] (optional)

Response:
  - 200: Film
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	var payload reviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch ReviewPatch
	var err error
	if patch.ShortReview, err = optionalString(FieldShortReview, payload.ShortReview); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if patch.LongReview, err = optionalString(FieldLongReview, payload.LongReview); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if validate.IsPresent(payload.Rating) {
		rating, err := validate.Number(FieldRating, payload.Rating)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		patch.Rating = &rating
	}

	film, err := handler.service.UpdateReview(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

/*
PUT /api/v1/films/{id}/update-infos.

Request:
  - director: string (optional)
  - origin: string (optional)
  - actors: []string (optional)

At least one of director or actors is required.

Response:
  - 200: Film
*/
func (handler *Handler) updateCredits(writer http.ResponseWriter, request *http.Request) {
	var payload creditsRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch CreditsPatch
	var err error
	if patch.Director, err = optionalString(FieldDirector, payload.Director); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if patch.Origin, err = optionalString(FieldOrigin, payload.Origin); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if validate.IsPresent(payload.Actors) {
		actors, err := validate.StringSlice(FieldActors, payload.Actors)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		patch.Actors = &actors
	}

	film, err := handler.service.UpdateCredits(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

// # Helpers

// optionalString decodes raw as a string when it was supplied.
func optionalString(field string, raw json.RawMessage) (*string, error) {
	if !validate.IsPresent(raw) {
		return nil, nil
	}
	value, err := validate.String(field, raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// decodeRating parses a raw rating into a validated integer.
func decodeRating(raw json.RawMessage) (int, error) {
	value, err := validate.Number(FieldRating, raw)
	if err != nil {
		return 0, err
	}
	return ParseRating(value)
}
