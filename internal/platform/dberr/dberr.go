// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes inspected by [Wrap].
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateInvalidText         = "22P02"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - pgx.ErrNoRows and malformed UUID input become NOT_FOUND.
//   - Unique violations become CONFLICT (e.g. a duplicate film slug).
//   - Foreign key violations become NOT_FOUND (the referenced film is gone).
//   - Everything else becomes INTERNAL_ERROR with the action recorded in the cause.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified by a lower layer.
	if apperr.As(err) != nil {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 2. Constraint mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case sqlStateUniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = err
			return conflict
		case sqlStateForeignKeyViolation:
			return apperr.NotFound("Referenced resource")
		case sqlStateInvalidText:
			return apperr.NotFound("Resource")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// NotFound narrows a NOT_FOUND error to a named resource, leaving others untouched.
func NotFound(err error, resource string) error {
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}

// WrapReference is [Wrap] for writes guarded by several foreign keys.
// A violation of a constraint listed in resources becomes NOT_FOUND for the
// resource it references; any other error is classified by [Wrap].
func WrapReference(err error, action string, resources map[string]string) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == sqlStateForeignKeyViolation {
		if resource, ok := resources[pgError.ConstraintName]; ok {
			return apperr.NotFound(resource)
		}
	}
	return Wrap(err, action)
}
