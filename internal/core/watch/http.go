// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinepocket/internal/core/film"
	requestutil "github.com/taibuivan/cinepocket/internal/platform/request"
	"github.com/taibuivan/cinepocket/internal/platform/respond"
)

// # Handler Implementation

// Handler exposes the engine's transitions over HTTP.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a new watch [Handler].
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterFilmRoutes attaches the transitions under /films.
func (handler *Handler) RegisterFilmRoutes(router chi.Router) {
	router.Put("/add-to-watchlist", handler.addToWatchlist)
	router.Put("/mark-as-watched", handler.markAsWatched)
}

// RegisterListRoutes attaches the watchlist alias under /lists.
func (handler *Handler) RegisterListRoutes(router chi.Router) {
	router.Put("/add-to-watchlist", handler.addToWatchlist)
}

// refRequest is the body shared by both transitions.
type refRequest struct {
	FilmID string `json:"filmId"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
}

func decodeRef(request *http.Request) (film.Ref, error) {
	var payload refRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		return film.Ref{}, err
	}
	return film.RefFrom(payload.FilmID, payload.Slug, payload.Title), nil
}

/*
PUT /api/v1/films/add-to-watchlist (alias: PUT /api/v1/lists/add-to-watchlist).

Request:
  - filmId: string, or
  - slug + title: string (title required when the slug is unknown)

Response:
  - 200: {message, film}
  - 400: VALIDATION_ERROR
  - 409: ALREADY_IN_LIST
*/
func (handler *Handler) addToWatchlist(writer http.ResponseWriter, request *http.Request) {
	ref, err := decodeRef(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.engine.AddToWatchlist(request.Context(), ref)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
PUT /api/v1/films/mark-as-watched.

Request:
  - filmId: string, or
  - slug + title: string

Response:
  - 200: {message, film, timesWatched}
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
*/
func (handler *Handler) markAsWatched(writer http.ResponseWriter, request *http.Request) {
	ref, err := decodeRef(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.engine.MarkAsWatched(request.Context(), ref)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
