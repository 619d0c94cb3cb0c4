// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/dberr"
)

/*
TestWrap_Classification verifies the SQLSTATE to AppError mapping.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: "23503"}, apperr.CodeNotFound},
		{"invalid_uuid", &pgconn.PgError{Code: "22P02"}, apperr.CodeNotFound},
		{"other_pg_error", &pgconn.PgError{Code: "57014"}, apperr.CodeInternal},
		{"plain_error", errors.New("connection reset"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "test_action"), tt.code))
		})
	}
}

/*
TestWrap_Nil and pass-through behaviour.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	original := apperr.AlreadyInList("Watchlist")
	assert.Same(t, original, dberr.Wrap(original, "noop"))
}

func TestNotFound_Narrowing(t *testing.T) {
	err := dberr.NotFound(dberr.Wrap(pgx.ErrNoRows, "get_film"), "Film")
	assert.Equal(t, "Film not found", err.Error())

	conflict := apperr.Conflict("dup")
	assert.Same(t, conflict, dberr.NotFound(conflict, "Film"))
}

/*
TestWrapReference_NamesViolatedConstraint maps each foreign key to its resource.
*/
func TestWrapReference_NamesViolatedConstraint(t *testing.T) {
	resources := map[string]string{
		"listfilm_list_fk": "List",
		"listfilm_film_fk": "Film",
	}

	missingList := &pgconn.PgError{Code: "23503", ConstraintName: "listfilm_list_fk"}
	assert.Equal(t, "List not found", dberr.WrapReference(missingList, "add_film_to_list", resources).Error())

	missingFilm := &pgconn.PgError{Code: "23503", ConstraintName: "listfilm_film_fk"}
	assert.Equal(t, "Film not found", dberr.WrapReference(missingFilm, "add_film_to_list", resources).Error())

	unknown := &pgconn.PgError{Code: "23503", ConstraintName: "other_fk"}
	assert.True(t, apperr.HasCode(dberr.WrapReference(unknown, "add_film_to_list", resources), apperr.CodeNotFound))

	assert.True(t, apperr.HasCode(dberr.WrapReference(errors.New("reset"), "add_film_to_list", resources), apperr.CodeInternal))
}
