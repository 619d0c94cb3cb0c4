// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/platform/postgres"
)

// PostgresUnitOfWork maps a unit of work onto one pgx transaction.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPostgresUnitOfWork constructs a transactional unit of work over pool.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Do opens a transaction, binds fresh repositories to it and commits when fn succeeds.
func (uow *PostgresUnitOfWork) Do(context context.Context, operation string, fn func(stores Stores) error) error {
	return postgres.WithTx(context, uow.pool, operation, func(tx pgx.Tx) error {
		return fn(Stores{
			Films: film.NewPostgresRepository(tx),
			Lists: list.NewPostgresRepository(tx),
		})
	})
}
