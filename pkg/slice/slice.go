// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with Map, Reduce and
Count. The remote stores use Map to turn wire DTOs into domain values.
*/
package slice

// Map transforms every element of input. A nil input yields nil.
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

// Reduce folds input into a single value, starting from initial.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, v := range input {
		result = reducer(result, v)
	}
	return result
}

// Count returns how many elements satisfy predicate.
func Count[T any](input []T, predicate func(T) bool) int {
	n := 0
	for _, v := range input {
		if predicate(v) {
			n++
		}
	}
	return n
}
