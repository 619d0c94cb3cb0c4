// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import "context"

// # Filter Cache

// FilterCache stores the last computed [Filters].
//
// Get returns (nil, nil) on a miss. Every film write calls Invalidate.
type FilterCache interface {
	Get(context context.Context) (*Filters, error)
	Set(context context.Context, filters *Filters) error
	Invalidate(context context.Context) error
}

// NoopFilterCache never stores anything, so every read hits the store.
type NoopFilterCache struct{}

func (NoopFilterCache) Get(context.Context) (*Filters, error) { return nil, nil }
func (NoopFilterCache) Set(context.Context, *Filters) error   { return nil }
func (NoopFilterCache) Invalidate(context.Context) error      { return nil }
