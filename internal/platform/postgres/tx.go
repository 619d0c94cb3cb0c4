// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinepocket/internal/platform/ctxutil"
	"github.com/taibuivan/cinepocket/internal/platform/dberr"
)

// DBTX is the query surface shared by [*pgxpool.Pool] and [pgx.Tx].
//
// Repositories accept it so the same code runs standalone or inside a
// transaction opened by [WithTx].
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

/*
WithTx runs fn inside a single transaction.

Description: The transaction is committed when fn returns nil and rolled back
otherwise, so a multi-step operation never leaves partial state behind.
A rollback caused by a failing commit is logged with the operation name.

Parameters:
  - ctx: context.Context
  - pool: *pgxpool.Pool
  - operation: string (Used in logs and error causes)
  - fn: func(pgx.Tx) error

Returns:
  - error: The error returned by fn, or a wrapped begin/commit failure
*/
func WithTx(ctx context.Context, pool *pgxpool.Pool, operation string, fn func(tx pgx.Tx) error) error {
	transaction, err := pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_"+operation)
	}
	defer func() {
		if rollbackErr := transaction.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "transaction_rollback_failed",
				slog.String("operation", operation),
				slog.Any("error", rollbackErr),
			)
		}
	}()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "unit_of_work_rollback",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return dberr.Wrap(err, "commit_"+operation)
	}

	return nil
}
