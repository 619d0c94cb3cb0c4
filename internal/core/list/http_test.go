// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinepocket/internal/core/list"
)

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_ListLifecycle(t *testing.T) {
	f := newFixture(t)
	target := f.film(t, "Fallen Leaves", "fallen-leaves")

	router := chi.NewRouter()
	router.Route("/lists", list.NewHandler(f.service).RegisterRoutes)

	recorder := serve(router, http.MethodPost, "/lists", `{"title":"Kaurismäki","favorite":true,"films":["`+target.ID+`"]}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data struct {
			ID       string `json:"id"`
			ListType string `json:"listType"`
			Favorite bool   `json:"favorite"`
			Films    []struct {
				Slug string `json:"slug"`
			} `json:"films"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "Customised", created.Data.ListType)
	assert.True(t, created.Data.Favorite)
	require.Len(t, created.Data.Films, 1)
	assert.Equal(t, "fallen-leaves", created.Data.Films[0].Slug)

	recorder = serve(router, http.MethodGet, "/lists/"+created.Data.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodPut, "/lists/"+created.Data.ID+"/films/"+target.ID, "")
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ALREADY_IN_LIST")

	recorder = serve(router, http.MethodDelete, "/lists/"+created.Data.ID+"/films/"+target.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodGet, "/lists/watchlist", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(router, http.MethodGet, "/lists", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodPost, "/lists", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
