// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package film provides the PostgreSQL implementation of the film store.

It relies on a few PostgreSQL features to keep every operation to one round-trip:
  - Native Arrays: recommendations, actors, tags and watch dates are TEXT[]/TIMESTAMPTZ[].
  - JSONB: platforms are stored as an array of {id,label} objects.
  - Row Locks: Lock uses SELECT ... FOR UPDATE inside a unit of work.
  - Aggregates: filter menus are built with array_agg(DISTINCT ...) in a single query.
*/
package film

import (
	"context"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/dberr"
	"github.com/taibuivan/cinepocket/internal/platform/postgres"
)

// filmColumns is the canonical projection scanned by [scanFilm].
const filmColumns = `
	f.id, f.title, f.slug, f.status, f.shortreview, f.longreview,
	f.liked, f.hyped, f.rating, f.recommendations, f.origin, f.director,
	f.actors, f.platform, f.watcheddates, f.tags, f.createdat, f.updatedat
`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository constructs a PostgreSQL backed film store.
//
// db is either the shared pool or a transaction opened by the unit of work.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (*Film, error) {
	film := &Film{}
	err := row.Scan(
		&film.ID, &film.Title, &film.Slug, &film.Status, &film.ShortReview, &film.LongReview,
		&film.Liked, &film.Hyped, &film.Rating, &film.Recommendations, &film.Origin, &film.Director,
		&film.Actors, &film.Platform, &film.WatchedDates, &film.Tags, &film.CreatedAt, &film.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	film.normalize()
	return film, nil
}

// # Film Persistence

/*
Create inserts a new film row.

Description: Timestamps are assigned by the database and written back into
the entity. A duplicate slug violates the unique index and surfaces as a
Conflict naming the slug.

Parameters:
  - context: context.Context
  - film: *Film

Returns:
  - error: Conflict on duplicate slug, Internal on other failures
*/
func (repository *PostgresRepository) Create(context context.Context, film *Film) error {
	const query = `
		INSERT INTO cinepocket.film (
			id, title, slug, status, shortreview, longreview, liked, hyped, rating,
			recommendations, origin, director, actors, platform, watcheddates, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING createdat, updatedat
	`
	film.normalize()

	err := repository.db.QueryRow(context, query,
		film.ID, film.Title, film.Slug, film.Status, film.ShortReview, film.LongReview,
		film.Liked, film.Hyped, film.Rating, film.Recommendations, film.Origin, film.Director,
		film.Actors, film.Platform, film.WatchedDates, film.Tags,
	).Scan(&film.CreatedAt, &film.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "create_film")
		if apperr.HasCode(wrapped, apperr.CodeConflict) {
			return slugConflict(film.Slug)
		}
		return wrapped
	}
	return nil
}

// FindByID retrieves a film by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Film, error) {
	const query = `SELECT ` + filmColumns + ` FROM cinepocket.film f WHERE f.id = $1`

	film, err := scanFilm(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFound(dberr.Wrap(err, "find_film_by_id"), "Film")
	}
	return film, nil
}

// FindBySlug retrieves a film by its unique URL slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Film, error) {
	const query = `SELECT ` + filmColumns + ` FROM cinepocket.film f WHERE f.slug = $1`

	film, err := scanFilm(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.NotFound(dberr.Wrap(err, "find_film_by_slug"), "Film")
	}
	return film, nil
}

/*
Lock retrieves a film and locks its row for the rest of the transaction.

Description: Used by every read-modify-write so two concurrent edits of the
same film serialize instead of losing one of the updates.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Film: The locked film
  - error: NotFound if missing
*/
func (repository *PostgresRepository) Lock(context context.Context, id string) (*Film, error) {
	const query = `SELECT ` + filmColumns + ` FROM cinepocket.film f WHERE f.id = $1 FOR UPDATE`

	film, err := scanFilm(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFound(dberr.Wrap(err, "lock_film"), "Film")
	}
	return film, nil
}

/*
FindByIDs hydrates a list of film ids in a single query.

Description: Joins against unnest(...) WITH ORDINALITY so rows come back in
the order of ids. Ids without a matching film are silently dropped.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []*Film: Films ordered like ids
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByIDs(context context.Context, ids []string) ([]*Film, error) {
	films := make([]*Film, 0, len(ids))
	if len(ids) == 0 {
		return films, nil
	}

	const query = `
		SELECT ` + filmColumns + `
		FROM unnest($1::uuid[]) WITH ORDINALITY AS wanted(id, ord)
		JOIN cinepocket.film f ON f.id = wanted.id
		ORDER BY wanted.ord
	`
	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "find_films_by_ids")
	}
	defer rows.Close()

	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_film")
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_films")
	}

	return films, nil
}

/*
Update overwrites the mutable columns of a film.

Description: Title and slug are immutable after creation and are never
written here. UpdatedAt is refreshed by the database.

Parameters:
  - context: context.Context
  - film: *Film

Returns:
  - error: NotFound if no row matched
*/
func (repository *PostgresRepository) Update(context context.Context, film *Film) error {
	const query = `
		UPDATE cinepocket.film SET
			status = $2, shortreview = $3, longreview = $4, liked = $5, hyped = $6,
			rating = $7, recommendations = $8, origin = $9, director = $10,
			actors = $11, platform = $12, watcheddates = $13, tags = $14,
			updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat
	`
	film.normalize()

	err := repository.db.QueryRow(context, query,
		film.ID, film.Status, film.ShortReview, film.LongReview, film.Liked, film.Hyped,
		film.Rating, film.Recommendations, film.Origin, film.Director,
		film.Actors, film.Platform, film.WatchedDates, film.Tags,
	).Scan(&film.UpdatedAt)
	if err != nil {
		return dberr.NotFound(dberr.Wrap(err, "update_film"), "Film")
	}
	return nil
}

// # Read Models

// ListTitles returns the id/title/slug/status projection of every film.
func (repository *PostgresRepository) ListTitles(context context.Context) ([]*Title, error) {
	const query = `
		SELECT id, title, slug, status
		FROM cinepocket.film
		ORDER BY title COLLATE "C", id
	`
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_film_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	for rows.Next() {
		title := &Title{}
		if err := rows.Scan(&title.ID, &title.Title, &title.Slug, &title.Status); err != nil {
			return nil, dberr.Wrap(err, "scan_film_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_film_titles")
	}

	return titles, nil
}

/*
Distinct computes the filter menus in one round-trip.

Description: Each sub-select aggregates the distinct non-blank values of one
attribute, sorted with the "C" collation so the order is byte-wise and
independent of the server locale. Platform labels are flattened out of the
JSONB arrays with jsonb_array_elements.

Parameters:
  - context: context.Context

Returns:
  - *Filters: Sorted distinct directors, origins, tags and platform labels
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) Distinct(context context.Context) (*Filters, error) {
	const query = `
		SELECT
			COALESCE((
				SELECT array_agg(DISTINCT director COLLATE "C" ORDER BY director COLLATE "C")
				FROM cinepocket.film
				WHERE btrim(COALESCE(director, '')) <> ''
			), '{}'),
			COALESCE((
				SELECT array_agg(DISTINCT origin COLLATE "C" ORDER BY origin COLLATE "C")
				FROM cinepocket.film
				WHERE btrim(COALESCE(origin, '')) <> ''
			), '{}'),
			COALESCE((
				SELECT array_agg(DISTINCT tag COLLATE "C" ORDER BY tag COLLATE "C")
				FROM cinepocket.film, unnest(tags) AS tag
				WHERE btrim(COALESCE(tag, '')) <> ''
			), '{}'),
			COALESCE((
				SELECT array_agg(DISTINCT (p ->> 'label') COLLATE "C" ORDER BY (p ->> 'label') COLLATE "C")
				FROM cinepocket.film, jsonb_array_elements(platform) AS p
				WHERE btrim(COALESCE(p ->> 'label', '')) <> ''
			), '{}')
	`
	filters := &Filters{}
	err := repository.db.QueryRow(context, query).Scan(
		&filters.Directors, &filters.Origins, &filters.Tags, &filters.Platforms,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "distinct_film_filters")
	}
	return filters, nil
}

func slugConflict(slug string) error {
	return apperr.Conflict("A film with slug '" + slug + "' already exists")
}
