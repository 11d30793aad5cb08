// Package store is the data-access layer: per-entity filtered, sorted and
// paginated list queries plus the aggregate rollups consumed by the
// dashboard. Stores are read/write wrappers around a shared *gorm.DB; they
// hold no state of their own.
package store

import (
	"errors"
	"fmt"
)

// ErrInvalidSortField is returned when a caller asks to sort by a field that
// is not in the entity's allow-list. Raw sort strings are never passed to
// the query builder.
var ErrInvalidSortField = errors.New("invalid sort field")

// Sort orders accepted by Pagination.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// FilterAll is the sentinel categorical value meaning "no constraint on
// this dimension". It must never be translated into a predicate.
const FilterAll = "all"

// Pagination carries the page spec for list queries. Zero values are
// normalized to page 1, the default limit and descending order.
type Pagination struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	return p
}

// Offset returns the 0-based row offset for the 1-based page number.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result is one page of rows plus the total count across all pages.
// NextPage/HasMore serve infinite-scroll consumers that accumulate pages.
type Result[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	NextPage   *int  `json:"next_page,omitempty"`
	HasMore    bool  `json:"has_more"`
}

func newResult[T any](data []T, total int64, p Pagination) *Result[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	res := &Result[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
	if p.Page < totalPages {
		next := p.Page + 1
		res.NextPage = &next
		res.HasMore = true
	}
	return res
}

// orderClause resolves SortBy against the entity's allow-list and appends a
// secondary id ordering so rows with equal sort keys page deterministically.
// An empty SortBy falls back to the entity default column.
func orderClause(columns map[string]string, p Pagination, defaultColumn string) (string, error) {
	column := defaultColumn
	if p.SortBy != "" {
		mapped, ok := columns[p.SortBy]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidSortField, p.SortBy)
		}
		column = mapped
	}
	direction := "DESC"
	if p.SortOrder == SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction), nil
}

// hasFilter reports whether a categorical filter value constrains the query.
func hasFilter(value string) bool {
	return value != "" && value != FilterAll
}

// UserRef is the shallow user projection carried on list rows.
type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CampaignRef is the shallow campaign projection carried on lead rows.
type CampaignRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// LeadRef is the shallow lead projection carried on message rows.
type LeadRef struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// rate returns numerator/denominator as a percentage, 0 when the
// denominator is 0. Never NaN, never Inf.
func rate(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
