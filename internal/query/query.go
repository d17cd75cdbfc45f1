// Package query translates recognized list-endpoint parameters into typed
// filter and pagination options, and computes the pagination envelope from a
// separate total count.
package query

import (
	"net/url"
	"strconv"
	"time"
)

// Pagination limits and defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options holds every recognized list filter; each field is independently
// optional (zero value means "not set").
type Options struct {
	Status   string
	Category string
	Type     string
	Author   string
	Priority string
	Featured *bool
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// Parse reads filter and pagination parameters from a query string.
// Invalid numbers fall back to defaults; invalid dates are ignored.
func Parse(values url.Values, defaultLimit int) Options {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	opts := Options{
		Status:   values.Get("status"),
		Category: values.Get("category"),
		Type:     values.Get("type"),
		Author:   values.Get("author"),
		Priority: values.Get("priority"),
		Search:   values.Get("search"),
		Page:     DefaultPage,
		Limit:    defaultLimit,
	}

	if s := values.Get("featured"); s != "" {
		featured := s == "true"
		opts.Featured = &featured
	}
	if t, ok := parseDate(values.Get("dateFrom")); ok {
		opts.DateFrom = &t
	}
	if t, ok := parseDate(values.Get("dateTo")); ok {
		opts.DateTo = &t
	}
	if s := values.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			opts.Page = v
		}
	}
	if s := values.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			opts.Limit = v
			if opts.Limit > MaxLimit {
				opts.Limit = MaxLimit
			}
		}
	}

	return opts
}

// Offset returns the number of rows to skip for the requested page
func (o Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Pagination is the envelope computed from a separate total-count query,
// never from the returned page itself.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// Paginate builds the pagination envelope for a page of the given size
func Paginate(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
