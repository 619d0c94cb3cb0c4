// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinepocket/internal/core/watch"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func newRouter(t *testing.T) (http.Handler, *harness) {
	t.Helper()
	h := newHarness(t)
	handler := watch.NewHandler(h.engine)

	router := chi.NewRouter()
	router.Route("/films", handler.RegisterFilmRoutes)
	router.Route("/lists", handler.RegisterListRoutes)
	return router, h
}

func put(t *testing.T, router http.Handler, path, body string) (int, envelope) {
	t.Helper()

	request := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder.Code, decoded
}

func TestHandler_WatchFlow(t *testing.T) {
	router, h := newRouter(t)

	status, body := put(t, router, "/films/add-to-watchlist", `{"title":"Dune","slug":"dune"}`)
	require.Equal(t, http.StatusOK, status, body.Error)

	var added watch.WatchlistResult
	require.NoError(t, json.Unmarshal(body.Data, &added))
	assert.Equal(t, "Film added to My Watchlist", added.Message)

	status, body = put(t, router, "/lists/add-to-watchlist", `{"filmId":"`+added.Film.ID+`"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_IN_LIST", body.Code)

	status, body = put(t, router, "/films/mark-as-watched", `{"filmId":"`+added.Film.ID+`"}`)
	require.Equal(t, http.StatusOK, status, body.Error)

	var watched watch.WatchedResult
	require.NoError(t, json.Unmarshal(body.Data, &watched))
	assert.Equal(t, 1, watched.TimesWatched)
	assert.Empty(t, h.watchlistIDs(t))
}

func TestHandler_WatchErrors(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"empty_ref", "/films/add-to-watchlist", `{}`, http.StatusBadRequest},
		{"bad_json", "/films/mark-as-watched", `{"slug":`, http.StatusBadRequest},
		{"unknown_slug_without_title", "/films/mark-as-watched", `{"slug":"heat"}`, http.StatusBadRequest},
		{"unknown_id", "/films/mark-as-watched", `{"filmId":"0190b3c4-5d6e-7f80-9a1b-2c3d4e5f6a7b"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := put(t, router, tt.path, tt.body)
			assert.Equal(t, tt.code, status, body.Error)
		})
	}
}
