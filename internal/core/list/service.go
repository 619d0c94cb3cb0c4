// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package list

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/cinepocket/internal/core/film"
	"github.com/taibuivan/cinepocket/internal/platform/apperr"
	"github.com/taibuivan/cinepocket/internal/platform/validate"
	"github.com/taibuivan/cinepocket/pkg/uuid"
)

// # Service Layer

// Service orchestrates list reads, creation and curated membership.
type Service struct {
	lists  Repository
	films  film.Repository
	tx     TxRunner
	logger *slog.Logger
}

// NewService constructs a list [Service].
func NewService(lists Repository, films film.Repository, tx TxRunner, logger *slog.Logger) *Service {
	return &Service{
		lists:  lists,
		films:  films,
		tx:     tx,
		logger: logger,
	}
}

// # List Lookups

// ListAll returns every list with its films expanded.
func (service *Service) ListAll(context context.Context) ([]*Detail, error) {
	lists, err := service.lists.FindAll(context)
	if err != nil {
		return nil, err
	}

	details := make([]*Detail, 0, len(lists))
	for _, list := range lists {
		detail, err := expand(context, service.films, list)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// GetByID returns a single list with its films expanded.
func (service *Service) GetByID(context context.Context, id string) (*Detail, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("List")
	}
	list, err := service.lists.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return expand(context, service.films, list)
}

// GetWatchlist returns the Watchlist, or NotFound before its first use.
func (service *Service) GetWatchlist(context context.Context) (*Detail, error) {
	return service.getByType(context, TypeWatchlist)
}

// GetSeenList returns the SeenList, or NotFound before its first use.
func (service *Service) GetSeenList(context context.Context) (*Detail, error) {
	return service.getByType(context, TypeSeenList)
}

func (service *Service) getByType(context context.Context, listType Type) (*Detail, error) {
	list, err := service.lists.FindByType(context, listType)
	if err != nil {
		return nil, err
	}
	return expand(context, service.films, list)
}

// # List Management

/*
CreateList validates and persists a new list with optional initial films.

Description: The list type defaults to Customised. Creating a second
Watchlist or SeenList is a Conflict, and both must be created empty since
their membership follows film status. Every initial film must exist and may
appear only once; the list and its memberships are written in one
transaction.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Detail: The created list with films expanded
  - error: ValidationError, NotFound (unknown film) or Conflict
*/
func (service *Service) CreateList(context context.Context, input CreateInput) (*Detail, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.ListType == "" {
		input.ListType = TypeCustomised
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.OneOf(FieldListType, string(input.ListType),
		string(TypeWatchlist),
		string(TypeLikedList),
		string(TypeSeenList),
		string(TypeCustomised),
	)

	validator.Custom(FieldFilms, input.ListType.IsSingleton() && len(input.FilmIDs) > 0,
		string(input.ListType)+" starts empty; use add-to-watchlist or mark-as-watched to fill it")

	seen := make(map[string]bool, len(input.FilmIDs))
	for _, filmID := range input.FilmIDs {
		validator.Custom(FieldFilms, !validate.IsUUID(filmID), "Film ids must be UUIDs: "+filmID)
		validator.Custom(FieldFilms, seen[filmID], "Duplicate film id: "+filmID)
		seen[filmID] = true
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	list := &List{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Favorite:    input.Favorite,
		ListType:    input.ListType,
		FilmIDs:     append([]string{}, input.FilmIDs...),
	}

	var detail *Detail
	err := service.tx.InTx(context, "create_list", func(lists Repository, films film.Repository) error {
		if err := lists.Create(context, list); err != nil {
			return err
		}

		var err error
		detail, err = expand(context, films, list)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("list_created",
		slog.String("list_id", list.ID),
		slog.String("list_type", string(list.ListType)),
		slog.Int("films", len(list.FilmIDs)),
	)
	return detail, nil
}

/*
AddFilm appends a film to a curated (LikedList or Customised) list.

Parameters:
  - context: context.Context
  - listID: string
  - filmID: string

Returns:
  - *Detail: The updated list
  - error: NotFound, Conflict for singleton lists, AlreadyInList for duplicates
*/
func (service *Service) AddFilm(context context.Context, listID, filmID string) (*Detail, error) {
	return service.changeMembership(context, "add_film_to_list", listID, filmID,
		func(lists Repository, list *List) error {
			added, err := lists.AddFilm(context, list.ID, filmID)
			if err != nil {
				return err
			}
			if !added {
				return apperr.AlreadyInList(list.Title)
			}
			return nil
		})
}

// RemoveFilm drops a film from a curated list. An absent film is NotFound.
func (service *Service) RemoveFilm(context context.Context, listID, filmID string) (*Detail, error) {
	return service.changeMembership(context, "remove_film_from_list", listID, filmID,
		func(lists Repository, list *List) error {
			removed, err := lists.RemoveFilm(context, list.ID, filmID)
			if err != nil {
				return err
			}
			if !removed {
				return apperr.NotFound("Film in " + list.Title)
			}
			return nil
		})
}

// changeMembership loads both sides, rejects singleton lists and applies change.
func (service *Service) changeMembership(
	context context.Context,
	operation, listID, filmID string,
	change func(lists Repository, list *List) error,
) (*Detail, error) {
	if !validate.IsUUID(listID) {
		return nil, apperr.NotFound("List")
	}
	if !validate.IsUUID(filmID) {
		return nil, apperr.NotFound("Film")
	}

	var detail *Detail
	err := service.tx.InTx(context, operation, func(lists Repository, films film.Repository) error {
		list, err := lists.FindByID(context, listID)
		if err != nil {
			return err
		}
		if list.ListType.IsSingleton() {
			return apperr.Conflict(string(list.ListType) + " membership is managed by the watch workflow")
		}
		if _, err := films.FindByID(context, filmID); err != nil {
			return err
		}

		if err := change(lists, list); err != nil {
			return err
		}

		updated, err := lists.FindByID(context, listID)
		if err != nil {
			return err
		}
		detail, err = expand(context, films, updated)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info(operation,
		slog.String("list_id", listID),
		slog.String("film_id", filmID),
	)
	return detail, nil
}

// # Helpers

// expand resolves the list's film ids. Missing films are skipped.
func expand(context context.Context, films film.Repository, list *List) (*Detail, error) {
	hydrated, err := films.FindByIDs(context, list.FilmIDs)
	if err != nil {
		return nil, err
	}
	return &Detail{List: list, Films: hydrated}, nil
}
