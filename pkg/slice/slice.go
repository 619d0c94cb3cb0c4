// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the small
generic helpers used when cleaning request input.
*/
package slice

import "strings"

// Map maps a slice of type T to a slice of type U using the provided transformation function.
// A nil input stays nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements of input for which predicate is true.
// A non-nil input always yields a non-nil result so that "[]" survives encoding.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0)
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// TrimNonBlank trims every value and drops the ones left empty.
func TrimNonBlank(values []string) []string {
	return Filter(Map(values, strings.TrimSpace), func(value string) bool {
		return value != ""
	})
}
