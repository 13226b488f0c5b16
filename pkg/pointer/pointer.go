// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional fields of partial updates and
// optional selections (a nil pointer means "not provided").
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value if p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
