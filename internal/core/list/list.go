// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package list manages named, ordered collections of films.

Two list types are singletons owned by the watch workflow: the Watchlist and
the SeenList. Their membership only changes through the watch package. Liked
and custom lists are curated directly by the user.
*/
package list

import (
	"time"

	"github.com/taibuivan/cinepocket/internal/core/film"
)

// # Domain Enums

// Type classifies a list.
type Type string

const (
	TypeWatchlist  Type = "Watchlist"
	TypeLikedList  Type = "LikedList"
	TypeSeenList   Type = "SeenList"
	TypeCustomised Type = "Customised"
)

// IsValid reports whether t is a recognised [Type].
func (t Type) IsValid() bool {
	switch t {
	case TypeWatchlist, TypeLikedList, TypeSeenList, TypeCustomised:
		return true
	}
	return false
}

// IsSingleton reports whether at most one list of this type may exist.
func (t Type) IsSingleton() bool {
	return t == TypeWatchlist || t == TypeSeenList
}

// DefaultTitle is the title given to a singleton list created on first use.
func (t Type) DefaultTitle() string {
	switch t {
	case TypeWatchlist:
		return "My Watchlist"
	case TypeSeenList:
		return "Films I've Seen"
	case TypeLikedList:
		return "Liked Films"
	}
	return "New List"
}

// # Core Entities

// List is an ordered set of film references.
type List struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Favorite    bool      `json:"favorite"`
	ListType    Type      `json:"listType"`
	FilmIDs     []string  `json:"-"` // insertion order, no duplicates
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Contains reports whether the list references filmID.
func (list *List) Contains(filmID string) bool {
	for _, id := range list.FilmIDs {
		if id == filmID {
			return true
		}
	}
	return false
}

func (list *List) clone() *List {
	copied := *list
	if list.Description != nil {
		description := *list.Description
		copied.Description = &description
	}
	copied.FilmIDs = append([]string{}, list.FilmIDs...)
	return &copied
}

// Detail is a list with its films expanded, as returned by the API.
type Detail struct {
	*List
	Films []*film.Film `json:"films"`
}

// CreateInput carries the caller-supplied fields of a new list.
type CreateInput struct {
	Title       string
	Description *string
	Favorite    bool
	ListType    Type
	FilmIDs     []string
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldListType    = "listType"
	FieldFilms       = "films"
)
