// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package watch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/core/list"
	"github.com/taibuivan/cinepocket/internal/platform/ctxutil"
)

// MemoryUnitOfWork gives the in-memory stores transactional behaviour.
//
// Units of work are serialized by a mutex. Both stores are snapshotted before
// fn runs and restored when it fails, which compensates every write fn made.
// Plain reads outside a unit of work are not blocked and may observe state
// that is later rolled back.
type MemoryUnitOfWork struct {
	mu    sync.Mutex
	films *film.MemoryRepository
	lists *list.MemoryRepository
}

// NewMemoryUnitOfWork constructs a unit of work over the given memory stores.
func NewMemoryUnitOfWork(films *film.MemoryRepository, lists *list.MemoryRepository) *MemoryUnitOfWork {
	return &MemoryUnitOfWork{films: films, lists: lists}
}

// Do runs fn and rolls both stores back if it returns an error.
func (uow *MemoryUnitOfWork) Do(context context.Context, operation string, fn func(stores Stores) error) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	filmSnapshot := uow.films.Snapshot()
	listSnapshot := uow.lists.Snapshot()

	if err := fn(Stores{Films: uow.films, Lists: uow.lists}); err != nil {
		uow.films.Restore(filmSnapshot)
		uow.lists.Restore(listSnapshot)

		ctxutil.GetLogger(context).DebugContext(context, "unit_of_work_rollback",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
