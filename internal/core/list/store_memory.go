// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// MemoryRepository implements [Repository] in process memory.
//
// Film existence is checked against the film store it was built with, which
// mirrors the foreign keys of the PostgreSQL schema.
type MemoryRepository struct {
	mu    sync.RWMutex
	lists map[string]*List
	order []string
	films film.Repository
	clock func() time.Time
}

// NewMemoryRepository constructs an empty in-memory list store.
func NewMemoryRepository(films film.Repository) *MemoryRepository {
	return &MemoryRepository{
		lists: make(map[string]*List),
		films: films,
		clock: time.Now,
	}
}

// # List Persistence

func (repository *MemoryRepository) Create(context context.Context, list *List) error {
	for _, filmID := range list.FilmIDs {
		if _, err := repository.films.FindByID(context, filmID); err != nil {
			return err
		}
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if list.ListType.IsSingleton() && repository.findByTypeLocked(list.ListType) != nil {
		return singletonConflict(list.ListType)
	}

	now := repository.clock().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	if list.FilmIDs == nil {
		list.FilmIDs = []string{}
	}

	repository.lists[list.ID] = list.clone()
	repository.order = append(repository.order, list.ID)
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*List, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, found := repository.lists[id]
	if !found {
		return nil, apperr.NotFound("List")
	}
	return stored.clone(), nil
}

func (repository *MemoryRepository) FindByType(_ context.Context, listType Type) (*List, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored := repository.findByTypeLocked(listType)
	if stored == nil {
		return nil, apperr.NotFound(string(listType))
	}
	return stored.clone(), nil
}

func (repository *MemoryRepository) FindAll(_ context.Context) ([]*List, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	lists := make([]*List, 0, len(repository.order))
	for _, id := range repository.order {
		lists = append(lists, repository.lists[id].clone())
	}
	return lists, nil
}

// GetOrCreateByType holds the write lock across the lookup and the insert.
func (repository *MemoryRepository) GetOrCreateByType(_ context.Context, listType Type, title string) (*List, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored := repository.findByTypeLocked(listType); stored != nil {
		return stored.clone(), false, nil
	}

	now := repository.clock().UTC()
	created := &List{
		ID:        uuid.New(),
		Title:     title,
		ListType:  listType,
		FilmIDs:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	repository.lists[created.ID] = created
	repository.order = append(repository.order, created.ID)
	return created.clone(), true, nil
}

// # Membership

func (repository *MemoryRepository) AddFilm(context context.Context, listID, filmID string) (bool, error) {
	if _, err := repository.films.FindByID(context, filmID); err != nil {
		return false, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, found := repository.lists[listID]
	if !found {
		return false, apperr.NotFound("List")
	}
	if stored.Contains(filmID) {
		return false, nil
	}

	stored.FilmIDs = append(stored.FilmIDs, filmID)
	stored.UpdatedAt = repository.clock().UTC()
	return true, nil
}

func (repository *MemoryRepository) RemoveFilm(_ context.Context, listID, filmID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, found := repository.lists[listID]
	if !found {
		return false, apperr.NotFound("List")
	}

	for index, id := range stored.FilmIDs {
		if id == filmID {
			stored.FilmIDs = append(stored.FilmIDs[:index:index], stored.FilmIDs[index+1:]...)
			stored.UpdatedAt = repository.clock().UTC()
			return true, nil
		}
	}
	return false, nil
}

// findByTypeLocked returns the oldest stored list of listType. Callers hold mu.
func (repository *MemoryRepository) findByTypeLocked(listType Type) *List {
	for _, id := range repository.order {
		if stored := repository.lists[id]; stored.ListType == listType {
			return stored
		}
	}
	return nil
}

// # Snapshots

// MemorySnapshot is an opaque copy of the store used for rollback.
type MemorySnapshot struct {
	lists map[string]*List
	order []string
}

// Snapshot captures the full store state.
func (repository *MemoryRepository) Snapshot() MemorySnapshot {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	snapshot := MemorySnapshot{
		lists: make(map[string]*List, len(repository.lists)),
		order: append([]string{}, repository.order...),
	}
	for id, stored := range repository.lists {
		snapshot.lists[id] = stored.clone()
	}
	return snapshot
}

// Restore replaces the store state with a previously captured snapshot.
func (repository *MemoryRepository) Restore(snapshot MemorySnapshot) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.lists = snapshot.lists
	repository.order = snapshot.order
}
