// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import "context"

// # Film Data Access

// Repository defines the data access contract for the film domain.
type Repository interface {

	/*
		Create persists a new film.

		Parameters:
		  - context: context.Context
		  - film: *Film (ID and Slug already assigned)

		Returns:
		  - error: Conflict when the slug is already taken
	*/
	Create(context context.Context, film *Film) error

	/*
		FindByID returns the film with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Film: The hydrated film
		  - error: NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Film, error)

	/*
		FindBySlug returns the film matching the unique URL slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Film: The hydrated film
		  - error: NotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Film, error)

	/*
		Lock returns the film and holds a row lock on it until the enclosing
		transaction ends. Outside a transaction it behaves like FindByID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Film: The hydrated film
		  - error: NotFound if missing
	*/
	Lock(context context.Context, id string) (*Film, error)

	/*
		FindByIDs returns the films for ids in the same order.
		Unknown ids are skipped.

		Parameters:
		  - context: context.Context
		  - ids: []string

		Returns:
		  - []*Film: Films in the order of ids
		  - error: Storage failures
	*/
	FindByIDs(context context.Context, ids []string) ([]*Film, error)

	/*
		Update persists every mutable field of an existing film and refreshes
		its UpdatedAt timestamp.

		Parameters:
		  - context: context.Context
		  - film: *Film

		Returns:
		  - error: NotFound if the film vanished
	*/
	Update(context context.Context, film *Film) error

	// ListTitles returns the title projection of every film, ordered by title.
	ListTitles(context context.Context) ([]*Title, error)

	// Distinct returns the sorted distinct filter values across all films.
	Distinct(context context.Context) (*Filters, error)
}

// # Transactions

// TxRunner runs fn against a [Repository] bound to a single transaction.
//
// A non-nil error from fn rolls back everything fn wrote.
type TxRunner interface {
	InTx(context context.Context, operation string, fn func(films Repository) error) error
}
