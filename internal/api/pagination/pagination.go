// Package pagination parses page/limit query parameters and builds paginated
// response bodies.
package pagination

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100
)

var (
	ErrInvalidPage  = errors.New("page should be a positive integer")
	ErrInvalidLimit = errors.New("limit should be a positive integer")
)

type Params struct {
	Page  int32
	Limit int32
}

func (p Params) Offset() int32 {
	return (p.Page - 1) * p.Limit
}

// InRange reports whether the page holds at least one of count items. The
// first page is always in range.
func (p Params) InRange(count int64) bool {
	return p.Page == 1 || int64(p.Offset()) < count
}

// Parse reads "page" and "limit" from q. Limits above MaxLimit are clamped.
func Parse(q url.Values) (Params, error) {
	params := Params{Page: 1, Limit: DefaultLimit}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return Params{}, ErrInvalidPage
		}
		params.Page = int32(page)
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit < 1 {
			return Params{}, ErrInvalidLimit
		}
		params.Limit = int32(min(limit, MaxLimit))
	}
	if int64(params.Page-1)*int64(params.Limit) > math.MaxInt32 {
		return Params{}, ErrInvalidPage
	}
	return params, nil
}

type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// New builds the page of results for r. Next and previous links keep every
// query parameter of r and are absolute when origin is set.
func New[T any](r *http.Request, origin string, p Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Page)*int64(p.Limit) < count {
		next := pageLink(r, origin, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageLink(r, origin, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageLink(r *http.Request, origin string, page int32) string {
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.FormatInt(int64(page), 10))
	}

	link := strings.TrimRight(origin, "/") + r.URL.Path
	if encoded := q.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return link
}
