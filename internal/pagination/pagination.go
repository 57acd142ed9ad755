package pagination

import (
	"net/http"
	"strconv"

	"github.com/2beens/quillhub/internal/apperr"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Params struct {
	Page     int
	PageSize int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Limit() int {
	return p.PageSize
}

// FromRequest reads page and page_size from the query string. A page_size
// above the maximum is clamped, anything non numeric or below 1 is rejected.
func FromRequest(r *http.Request) (Params, error) {
	params := Params{Page: 1, PageSize: DefaultPageSize}
	q := r.URL.Query()

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return Params{}, apperr.Field("page", "invalid page")
		}
		params.Page = page
	}

	if sizeStr := q.Get("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return Params{}, apperr.Field("page_size", "invalid page size")
		}
		params.PageSize = min(size, MaxPageSize)
	}

	return params, nil
}

type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

func NewPage[T any](params Params, count int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:    count,
		Page:     params.Page,
		PageSize: params.PageSize,
		Results:  results,
	}
}
