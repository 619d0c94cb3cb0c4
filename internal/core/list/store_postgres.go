// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/dberr"
	"github.com/taibuivan/cinepocket/internal/platform/postgres"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// listColumns selects a list and its ordered membership in one row.
const listColumns = `
	l.id, l.title, l.description, l.favorite, l.listtype, l.createdat, l.updatedat,
	ARRAY(
		SELECT lf.filmid::text
		FROM cinepocket.listfilm lf
		WHERE lf.listid = l.id
		ORDER BY lf.position
	)
`

// PostgresRepository implements [Repository] using pgx.
//
// Membership lives in cinepocket.listfilm with a (listid, filmid) primary key,
// so a film can never appear twice in the same list.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository constructs a PostgreSQL backed list store.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (*List, error) {
	list := &List{}
	err := row.Scan(
		&list.ID, &list.Title, &list.Description, &list.Favorite, &list.ListType,
		&list.CreatedAt, &list.UpdatedAt, &list.FilmIDs,
	)
	if err != nil {
		return nil, err
	}
	if list.FilmIDs == nil {
		list.FilmIDs = []string{}
	}
	return list, nil
}

// # List Persistence

/*
Create inserts the list row and then its memberships in order.

Description: Must run inside a transaction so a missing film rolls back the
list row as well. The partial unique index on listtype rejects a second
Watchlist or SeenList.

Parameters:
  - context: context.Context
  - list: *List

Returns:
  - error: Conflict, NotFound (unknown film) or Internal
*/
func (repository *PostgresRepository) Create(context context.Context, list *List) error {
	const insertList = `
		INSERT INTO cinepocket.list (id, title, description, favorite, listtype)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(context, insertList,
		list.ID, list.Title, list.Description, list.Favorite, list.ListType,
	).Scan(&list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		wrapped := dberr.Wrap(err, "create_list")
		if apperr.HasCode(wrapped, apperr.CodeConflict) {
			return singletonConflict(list.ListType)
		}
		return wrapped
	}

	for _, filmID := range list.FilmIDs {
		if _, err := repository.AddFilm(context, list.ID, filmID); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a list and its film ids.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*List, error) {
	const query = `SELECT ` + listColumns + ` FROM cinepocket.list l WHERE l.id = $1`

	list, err := scanList(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFound(dberr.Wrap(err, "find_list_by_id"), "List")
	}
	return list, nil
}

// FindByType retrieves the oldest list of the given type.
func (repository *PostgresRepository) FindByType(context context.Context, listType Type) (*List, error) {
	const query = `
		SELECT ` + listColumns + `
		FROM cinepocket.list l
		WHERE l.listtype = $1
		ORDER BY l.createdat, l.id
		LIMIT 1
	`
	list, err := scanList(repository.db.QueryRow(context, query, listType))
	if err != nil {
		return nil, dberr.NotFound(dberr.Wrap(err, "find_list_by_type"), string(listType))
	}
	return list, nil
}

// FindAll retrieves every list in creation order.
func (repository *PostgresRepository) FindAll(context context.Context) ([]*List, error) {
	const query = `SELECT ` + listColumns + ` FROM cinepocket.list l ORDER BY l.createdat, l.id`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "find_all_lists")
	}
	defer rows.Close()

	lists := make([]*List, 0)
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_list")
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_lists")
	}
	return lists, nil
}

/*
GetOrCreateByType is the atomic find-or-create for singleton lists.

Description: INSERT ... ON CONFLICT DO NOTHING against the partial unique
index either creates the list or waits for a concurrent creator to commit.
When nothing was inserted the existing row is read back, so two racing
callers always agree on a single list.

Parameters:
  - context: context.Context
  - listType: Type
  - title: string

Returns:
  - *List: The singleton list
  - bool: True if created by this call
  - error: Storage failures
*/
func (repository *PostgresRepository) GetOrCreateByType(context context.Context, listType Type, title string) (*List, bool, error) {
	const upsert = `
		INSERT INTO cinepocket.list (id, title, listtype)
		VALUES ($1, $2, $3)
		ON CONFLICT (listtype) WHERE listtype IN ('Watchlist', 'SeenList') DO NOTHING
		RETURNING id
	`
	var createdID string
	err := repository.db.QueryRow(context, upsert, uuid.New(), title, listType).Scan(&createdID)
	switch {
	case err == nil:
		list, err := repository.FindByID(context, createdID)
		return list, true, err
	case errors.Is(err, pgx.ErrNoRows):
		list, err := repository.FindByType(context, listType)
		return list, false, err
	default:
		return nil, false, dberr.Wrap(err, "get_or_create_list")
	}
}

// # Membership

/*
AddFilm appends a film at the end of the list.

Description: The identity column "position" orders memberships. A duplicate
(listid, filmid) is ignored through ON CONFLICT DO NOTHING and reported as
added=false. A missing list or film violates a foreign key and maps to
NotFound.

Parameters:
  - context: context.Context
  - listID: string
  - filmID: string

Returns:
  - bool: True when a membership row was inserted
  - error: NotFound or Internal
*/
func (repository *PostgresRepository) AddFilm(context context.Context, listID, filmID string) (bool, error) {
	const query = `
		INSERT INTO cinepocket.listfilm (listid, filmid)
		VALUES ($1, $2)
		ON CONFLICT (listid, filmid) DO NOTHING
	`
	tag, err := repository.db.Exec(context, query, listID, filmID)
	if err != nil {
		return false, dberr.WrapReference(err, "add_film_to_list", membershipReferences)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := repository.touch(context, listID); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFilm deletes one membership row.
func (repository *PostgresRepository) RemoveFilm(context context.Context, listID, filmID string) (bool, error) {
	const query = `DELETE FROM cinepocket.listfilm WHERE listid = $1 AND filmid = $2`

	tag, err := repository.db.Exec(context, query, listID, filmID)
	if err != nil {
		return false, dberr.Wrap(err, "remove_film_from_list")
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := repository.touch(context, listID); err != nil {
		return false, err
	}
	return true, nil
}

// touch refreshes the list's UpdatedAt after a membership change.
func (repository *PostgresRepository) touch(context context.Context, listID string) error {
	const query = `UPDATE cinepocket.list SET updatedat = NOW() WHERE id = $1`

	if _, err := repository.db.Exec(context, query, listID); err != nil {
		return dberr.Wrap(err, "touch_list")
	}
	return nil
}

// membershipReferences names the resource behind each listfilm foreign key.
var membershipReferences = map[string]string{
	"listfilm_list_fk": "List",
	"listfilm_film_fk": "Film",
}

func singletonConflict(listType Type) error {
	return apperr.Conflict("A " + string(listType) + " already exists")
}
