// Package query describes list and search requests independently of the
// store that answers them: sort specs, pagination windows and search terms.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"crowdfund/backend/models"
)

const (
	DefaultPage        = 1
	DefaultLimit       = 10
	MaxListLimit       = 100
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Page is a 1-based pagination window.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Page) Skip() int { return (p.Page - 1) * p.Limit }

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// Window returns the page's slice bounds within n items.
func (p Page) Window(n int) (start, end int) {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > (math.MaxInt-p.Limit)/p.Limit {
		return n, n
	}
	start = p.Skip()
	if start > n {
		start = n
	}
	end = start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// Paginate slices an already sorted collection.
func Paginate[T any](items []T, p Page) []T {
	start, end := p.Window(len(items))
	return items[start:end]
}

// Result is one page of a sorted, filtered listing.
type Result[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func NewResult[T any](items []T, total int64, p Page) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages(total)}
}

// ParsePage reads page/limit query values; empty values take defaults.
func ParsePage(page, limit string) (Page, error) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	var err error
	if page != "" {
		if p.Page, err = strconv.Atoi(page); err != nil || p.Page < 1 {
			return Page{}, models.ErrInvalidParameters
		}
	}
	if limit != "" {
		if p.Limit, err = strconv.Atoi(limit); err != nil || p.Limit < 1 || p.Limit > MaxListLimit {
			return Page{}, models.ErrInvalidParameters
		}
	}
	// page*limit must fit an int so Skip and Window never overflow
	if p.Page > math.MaxInt/p.Limit {
		return Page{}, models.ErrInvalidParameters
	}
	return p, nil
}

func parseOrder(order string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(order)) {
	case "", Desc:
		return Desc, nil
	case Asc:
		return Asc, nil
	}
	return "", models.ErrInvalidParameters
}

// Search is a case-insensitive substring search over open entities.
type Search struct {
	Query string
	Limit int
}

func ParseSearch(q, limit string) (Search, error) {
	s := Search{Query: strings.Join(strings.Fields(q), " "), Limit: DefaultSearchLimit}
	if s.Query == "" {
		return Search{}, models.ErrInvalidQuery
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > MaxSearchLimit {
			return Search{}, models.ErrInvalidParameters
		}
		s.Limit = n
	}
	return s, nil
}

// Normalized is the cache-key form of the query.
func (s Search) Normalized() string {
	return strings.ToLower(strings.Join(strings.Fields(s.Query), " "))
}

// Matches reports whether text contains the query, ignoring case.
func (s Search) Matches(text string) bool {
	return strings.Contains(strings.ToLower(text), s.Normalized())
}

// CacheKey builds the read-through cache key for a search.
func (s Search) CacheKey(scope string, extra ...string) string {
	parts := append([]string{scope, "search", s.Normalized(), strconv.Itoa(s.Limit)}, extra...)
	return strings.Join(parts, ":")
}

func (s Search) String() string { return fmt.Sprintf("%q limit=%d", s.Query, s.Limit) }
