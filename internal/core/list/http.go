// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cinepocket/internal/platform/request"
	"github.com/taibuivan/cinepocket/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for lists.
type Handler struct {
	service *Service
}

// NewHandler constructs a new list [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the list endpoints to router (mounted at /lists).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listAll)
	router.Post("/", handler.createList)
	router.Get("/watchlist", handler.getWatchlist)
	router.Get("/seenlist", handler.getSeenList)
	router.Get("/{id}", handler.getList)

	// ## Curated membership
	router.Put("/{id}/films/{filmID}", handler.addFilm)
	router.Delete("/{id}/films/{filmID}", handler.removeFilm)
}

type createListRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Favorite    bool     `json:"favorite"`
	ListType    Type     `json:"listType"`
	Films       []string `json:"films"`
}

// GET /api/v1/lists.
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	lists, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lists)
}

// GET /api/v1/lists/watchlist.
func (handler *Handler) getWatchlist(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetWatchlist(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

// GET /api/v1/lists/seenlist.
func (handler *Handler) getSeenList(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetSeenList(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

// GET /api/v1/lists/{id}.
func (handler *Handler) getList(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
POST /api/v1/lists.

Request:
  - title: string (required)
  - description: string (optional)
  - favorite: bool (default false)
  - listType: Watchlist | LikedList | SeenList | Customised (default Customised)
  - films: []string (optional film ids, in order)

Response:
  - 201: List with films expanded
  - 400: VALIDATION_ERROR
  - 409: CONFLICT (second Watchlist or SeenList)
*/
func (handler *Handler) createList(writer http.ResponseWriter, request *http.Request) {
	var payload createListRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.CreateList(request.Context(), CreateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Favorite:    payload.Favorite,
		ListType:    payload.ListType,
		FilmIDs:     payload.Films,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, detail)
}

// PUT /api/v1/lists/{id}/films/{filmID}.
func (handler *Handler) addFilm(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.AddFilm(request.Context(),
		requestutil.Param(request, "id"),
		requestutil.Param(request, "filmID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

// DELETE /api/v1/lists/{id}/films/{filmID}.
func (handler *Handler) removeFilm(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.RemoveFilm(request.Context(),
		requestutil.Param(request, "id"),
		requestutil.Param(request, "filmID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}
