package domain

import "strings"

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Filter is an equality filter keyed by document field name.
type Filter map[string]string

// Query describes one page of a listing.
type Query struct {
	Page   int    // 0-based
	Size   int    // page size, clamped to [1, MaxPageSize]
	Sort   string // "field" ascending, "-field" descending; empty means creation order
	Search string // case-insensitive literal substring on name
	Filter Filter
}

// Normalized returns q with defaults applied.
func (q Query) Normalized() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset is the number of documents skipped before the page.
func (q Query) Offset() int64 {
	return int64(q.Page) * int64(q.Size)
}

// SortField splits Sort into the field name and direction.
func (q Query) SortField() (field string, desc bool) {
	if strings.HasPrefix(q.Sort, "-") {
		return q.Sort[1:], true
	}
	return q.Sort, false
}

// With returns a copy of q whose filter also holds key=value.
func (q Query) With(key, value string) Query {
	f := make(Filter, len(q.Filter)+1)
	for k, v := range q.Filter {
		f[k] = v
	}
	f[key] = value
	q.Filter = f
	return q
}

// Page is one page of a listing.
type Page[T any] struct {
	Docs  []T   `json:"docs"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

// NewPage wraps docs fetched for q. q must already be normalized.
func NewPage[T any](docs []T, total int64, q Query) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	pages := total / int64(q.Size)
	if total%int64(q.Size) != 0 {
		pages++
	}
	return Page[T]{Docs: docs, Total: total, Page: q.Page, Size: q.Size, Pages: pages}
}

// MapPage converts the documents of p, keeping its counters.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Docs))
	for i, d := range p.Docs {
		out[i] = fn(d)
	}
	return Page[U]{Docs: out, Total: p.Total, Page: p.Page, Size: p.Size, Pages: p.Pages}
}
