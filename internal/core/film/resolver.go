// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/ctxutil"
	"github.com/taibuivan/cinepocket/internal/platform/validate"
	"github.com/taibuivan/cinepocket/pkg/slug"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// # Film References

// Ref identifies a film either by id or by slug.
//
// A slug reference may carry a title, which is required to create the film
// when the slug is not stored yet. The zero Ref identifies nothing.
type Ref struct {
	id    string
	slug  string
	title string
}

// ByID references an existing film by its UUID.
func ByID(id string) Ref {
	return Ref{id: strings.TrimSpace(id)}
}

// BySlug references a film by slug, with the title used if it must be created.
func BySlug(filmSlug, title string) Ref {
	return Ref{slug: strings.TrimSpace(filmSlug), title: strings.TrimSpace(title)}
}

// RefFrom builds a Ref from loosely typed request fields. The id wins when both are set.
func RefFrom(id, filmSlug, title string) Ref {
	if strings.TrimSpace(id) != "" {
		return ByID(id)
	}
	return BySlug(filmSlug, title)
}

// IsZero reports whether the reference names no film at all.
func (ref Ref) IsZero() bool {
	return ref.id == "" && ref.slug == ""
}

// ID returns the referenced id, empty for slug references.
func (ref Ref) ID() string { return ref.id }

// Slug returns the referenced slug, empty for id references.
func (ref Ref) Slug() string { return ref.slug }

// String renders the reference for logs.
func (ref Ref) String() string {
	switch {
	case ref.id != "":
		return "id:" + ref.id
	case ref.slug != "":
		return "slug:" + ref.slug
	}
	return "none"
}

// # Resolution

/*
Resolve turns a [Ref] into a stored film, creating it when needed.

Description: An id reference must match an existing film. A slug reference
is normalized with [slug.From] and looked up; when no film carries that slug
a new one is created with createStatus, provided the reference has a title.
Resolve must run inside the caller's unit of work so a film created here is
rolled back together with the rest of the operation.

Parameters:
  - context: context.Context
  - films: Repository (Bound to the current transaction)
  - ref: Ref
  - createStatus: Status (Initial status of a newly created film)

Returns:
  - *Film: The resolved film
  - bool: True when the film was created by this call
  - error: ValidationError for an empty ref or missing title, NotFound for an unknown id
*/
func Resolve(context context.Context, films Repository, ref Ref, createStatus Status) (*Film, bool, error) {

	// 1. Reject references that name nothing
	if ref.IsZero() {
		return nil, false, validate.RequiredError(FieldFilmID, "Provide a film id or a slug")
	}

	// 2. Id references never create
	if ref.id != "" {
		if !validate.IsUUID(ref.id) {
			return nil, false, apperr.NotFound("Film")
		}
		film, err := films.FindByID(context, ref.id)
		return film, false, err
	}

	// 3. Slug references resolve or create
	normalized := slug.From(ref.slug)
	if normalized == "" {
		return nil, false, validate.RequiredError(FieldSlug, "Slug must contain at least one letter or digit")
	}

	existing, err := films.FindBySlug(context, normalized)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, false, err
	}

	if ref.title == "" {
		return nil, false, validate.RequiredError(FieldTitle, "A title is required to create a new film")
	}

	created := &Film{
		ID:     uuid.New(),
		Title:  ref.title,
		Slug:   normalized,
		Status: createStatus,
	}
	if err := films.Create(context, created); err != nil {
		return nil, false, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "film_created",
		slog.String("film_id", created.ID),
		slog.String("slug", created.Slug),
		slog.String("status", string(created.Status)),
	)

	return created, true, nil
}
