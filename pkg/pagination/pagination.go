// Copyright (c) 2026 Plume. All rights reserved.

// Package pagination carries page/limit handling for list endpoints.
//
// Post listings, tag and category browses, and the admin post table all
// page the same way: a 1-indexed "page" and a "limit" query parameter,
// clamped server-side, echoed back as metadata next to the items.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size used when the caller does not ask.
	DefaultLimit = 20

	// MaxLimit caps the page size. It doubles as the fetch size for
	// uncapped internal reads such as monthly archives.
	MaxLimit = 100

	// DefaultPage is the first page. Pages are 1-indexed.
	DefaultPage = 1
)

// Params is a sanitized page request. Build it with [FromRequest];
// zero-value Params mean "everything from the start".
type Params struct {
	Page  int
	Limit int
}

// Offset converts the page number into a row offset for SQL queries.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes one page of a listing in the response envelope.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds listing metadata from the request page and the total
// match count reported by the repository.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest reads "page" and "limit" from the query string.
//
// Missing, malformed, non-positive, or oversized values fall back to
// [DefaultPage] and [DefaultLimit]; limit never exceeds [MaxLimit]. A
// bad parameter is never an error, the listing just uses the defaults.
func FromRequest(r *http.Request) Params {
	page := queryInt(r, "page", DefaultPage)
	limit := queryInt(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}
