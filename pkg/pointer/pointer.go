// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for the optional fields of a film
(review texts, rating, liked and hyped flags).

Key Functions:
  - To: Creates a pointer from a value literal.
  - Val: Dereferences a pointer, returning the zero value if nil.
*/
package pointer

// To returns a pointer to the provided value (e.g. pointer.To("Michael Mann")).
func To[T any](v T) *T {
	return &v
}

// Val dereferences p. A nil pointer yields the zero value, so an unset
// flag reads as false.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
