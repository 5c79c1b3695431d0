// internal/app/system/paging/paging.go

// Package paging parses offset pagination query parameters and computes
// result-set page counts.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params is a parsed page/limit pair. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Parse reads ?page and ?limit, falling back to sane defaults for
// missing, malformed, or out-of-range values.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if raw := query.Get(r, "page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if raw := query.Get(r, "limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// TotalPages returns how many pages a result set of total items spans.
// An empty set still has one page.
func (p Params) TotalPages(total int64) int64 {
	if total <= 0 {
		return 1
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return pages
}
