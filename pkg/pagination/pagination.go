// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides page-based navigation for list endpoints.
//
// The reading-plan backend returns a user's plans in one response, so pages
// are cut locally with [Slice] after the full list arrives.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Slice returns the items of page p and the metadata describing it.
// A page past the end yields an empty, non-nil slice.
func Slice[T any](items []T, p Params) ([]T, Meta) {
	meta := Meta{Page: p.Page, Limit: p.Limit, Total: len(items)}
	if p.Limit > 0 {
		meta.TotalPages = (len(items) + p.Limit - 1) / p.Limit
	}

	start := min(max(p.Page-1, 0)*p.Limit, len(items))
	end := min(start+p.Limit, len(items))

	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)

	return page, meta
}

// FromRequest parses "page" and "limit" query parameters. Invalid, negative,
// or excessive values fall back to [DefaultPage] and [DefaultLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
