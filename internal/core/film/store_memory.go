// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cinepocket/internal/platform/apperr"
)

// MemoryRepository implements [Repository] in process memory.
//
// It backs the "memory" storage driver and the package tests. Entities are
// deep-copied on the way in and out so callers never alias stored state.
type MemoryRepository struct {
	mu    sync.RWMutex
	films map[string]*Film
	slugs map[string]string
	order []string
	clock func() time.Time
}

// NewMemoryRepository constructs an empty in-memory film store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		films: make(map[string]*Film),
		slugs: make(map[string]string),
		clock: time.Now,
	}
}

// # Film Persistence

func (repository *MemoryRepository) Create(_ context.Context, film *Film) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.slugs[film.Slug]; taken {
		return slugConflict(film.Slug)
	}
	if _, taken := repository.films[film.ID]; taken {
		return apperr.Conflict("Film already exists")
	}

	now := repository.clock().UTC()
	film.normalize()
	film.CreatedAt = now
	film.UpdatedAt = now

	repository.films[film.ID] = film.clone()
	repository.slugs[film.Slug] = film.ID
	repository.order = append(repository.order, film.ID)
	return nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, found := repository.films[id]
	if !found {
		return nil, apperr.NotFound("Film")
	}
	return stored.clone(), nil
}

func (repository *MemoryRepository) FindBySlug(_ context.Context, slug string) (*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, found := repository.slugs[slug]
	if !found {
		return nil, apperr.NotFound("Film")
	}
	return repository.films[id].clone(), nil
}

// Lock is FindByID; writers are serialized by the memory unit of work.
func (repository *MemoryRepository) Lock(context context.Context, id string) (*Film, error) {
	return repository.FindByID(context, id)
}

func (repository *MemoryRepository) FindByIDs(_ context.Context, ids []string) ([]*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	films := make([]*Film, 0, len(ids))
	for _, id := range ids {
		if stored, found := repository.films[id]; found {
			films = append(films, stored.clone())
		}
	}
	return films, nil
}

func (repository *MemoryRepository) Update(_ context.Context, film *Film) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, found := repository.films[film.ID]
	if !found {
		return apperr.NotFound("Film")
	}

	updated := film.clone()
	updated.normalize()
	updated.Title = stored.Title
	updated.Slug = stored.Slug
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = repository.clock().UTC()

	repository.films[film.ID] = updated
	film.UpdatedAt = updated.UpdatedAt
	return nil
}

// # Read Models

func (repository *MemoryRepository) ListTitles(_ context.Context) ([]*Title, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	titles := make([]*Title, 0, len(repository.order))
	for _, id := range repository.order {
		stored := repository.films[id]
		titles = append(titles, &Title{ID: stored.ID, Title: stored.Title, Slug: stored.Slug, Status: stored.Status})
	}
	sort.SliceStable(titles, func(i, j int) bool {
		if titles[i].Title != titles[j].Title {
			return titles[i].Title < titles[j].Title
		}
		return titles[i].ID < titles[j].ID
	})
	return titles, nil
}

func (repository *MemoryRepository) Distinct(_ context.Context) (*Filters, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	directors := newValueSet()
	origins := newValueSet()
	tags := newValueSet()
	platforms := newValueSet()

	for _, stored := range repository.films {
		if stored.Director != nil {
			directors.add(*stored.Director)
		}
		if stored.Origin != nil {
			origins.add(*stored.Origin)
		}
		for _, tag := range stored.Tags {
			tags.add(tag)
		}
		for _, platform := range stored.Platform {
			platforms.add(platform.Label)
		}
	}

	return &Filters{
		Directors: directors.sorted(),
		Origins:   origins.sorted(),
		Tags:      tags.sorted(),
		Platforms: platforms.sorted(),
	}, nil
}

// # Snapshots

// MemorySnapshot is an opaque copy of the store used for rollback.
type MemorySnapshot struct {
	films map[string]*Film
	slugs map[string]string
	order []string
}

// Snapshot captures the full store state.
func (repository *MemoryRepository) Snapshot() MemorySnapshot {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	snapshot := MemorySnapshot{
		films: make(map[string]*Film, len(repository.films)),
		slugs: make(map[string]string, len(repository.slugs)),
		order: append([]string{}, repository.order...),
	}
	for id, stored := range repository.films {
		snapshot.films[id] = stored.clone()
	}
	for slug, id := range repository.slugs {
		snapshot.slugs[slug] = id
	}
	return snapshot
}

// Restore replaces the store state with a previously captured snapshot.
func (repository *MemoryRepository) Restore(snapshot MemorySnapshot) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.films = snapshot.films
	repository.slugs = snapshot.slugs
	repository.order = snapshot.order
}

// valueSet collects distinct non-blank strings.
type valueSet map[string]struct{}

func newValueSet() valueSet {
	return make(valueSet)
}

func (set valueSet) add(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	set[value] = struct{}{}
}

func (set valueSet) sorted() []string {
	values := make([]string, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
