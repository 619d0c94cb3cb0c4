// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch

import (
	"context"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
)

// # Unit of Work

// Stores are the repositories bound to one unit of work.
type Stores struct {
	Films film.Repository
	Lists list.Repository
}

// UnitOfWork runs fn atomically: either every write made through the Stores
// is kept, or none is.
type UnitOfWork interface {
	Do(context context.Context, operation string, fn func(stores Stores) error) error
}

// FilmTx adapts a [UnitOfWork] to the [film.TxRunner] contract.
func FilmTx(uow UnitOfWork) film.TxRunner {
	return filmTx{uow: uow}
}

// ListTx adapts a [UnitOfWork] to the [list.TxRunner] contract.
func ListTx(uow UnitOfWork) list.TxRunner {
	return listTx{uow: uow}
}

type filmTx struct {
	uow UnitOfWork
}

func (tx filmTx) InTx(context context.Context, operation string, fn func(films film.Repository) error) error {
	return tx.uow.Do(context, operation, func(stores Stores) error {
		return fn(stores.Films)
	})
}

type listTx struct {
	uow UnitOfWork
}

func (tx listTx) InTx(context context.Context, operation string, fn func(lists list.Repository, films film.Repository) error) error {
	return tx.uow.Do(context, operation, func(stores Stores) error {
		return fn(stores.Lists, stores.Films)
	})
}
