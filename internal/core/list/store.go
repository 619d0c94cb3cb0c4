// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import (
	"context"

	"github.com/taibuivan/cinepocket/internal/core/film"
)

// # List Data Access

// Repository defines the data access contract for lists and their membership.
type Repository interface {

	/*
		Create persists a new list together with its initial films, in order.

		Parameters:
		  - context: context.Context
		  - list: *List (ID assigned)

		Returns:
		  - error: Conflict for a second singleton, NotFound for an unknown film
	*/
	Create(context context.Context, list *List) error

	// FindByID returns the list with its film ids in insertion order.
	FindByID(context context.Context, id string) (*List, error)

	// FindByType returns the singleton list of the given type, or NotFound.
	FindByType(context context.Context, listType Type) (*List, error)

	// FindAll returns every list ordered by creation.
	FindAll(context context.Context) ([]*List, error)

	/*
		GetOrCreateByType returns the singleton list of listType, creating it
		with title when it does not exist. Concurrent callers always end up with
		the same list.

		Parameters:
		  - context: context.Context
		  - listType: Type (Watchlist or SeenList)
		  - title: string

		Returns:
		  - *List: The singleton list
		  - bool: True when this call created it
		  - error: Storage failures
	*/
	GetOrCreateByType(context context.Context, listType Type, title string) (*List, bool, error)

	/*
		AddFilm appends filmID to the list unless it is already there.

		Parameters:
		  - context: context.Context
		  - listID: string
		  - filmID: string

		Returns:
		  - bool: False when the film was already a member (nothing changed)
		  - error: NotFound for an unknown list or film
	*/
	AddFilm(context context.Context, listID, filmID string) (bool, error)

	// RemoveFilm drops filmID from the list. It reports false if it was absent.
	RemoveFilm(context context.Context, listID, filmID string) (bool, error)
}

// # Transactions

// TxRunner runs fn against list and film repositories bound to one transaction.
type TxRunner interface {
	InTx(context context.Context, operation string, fn func(lists Repository, films film.Repository) error) error
}
