package params

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrInvalidPage     = errors.New("invalid page number")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// CatalogDefaults holds the documented defaults for the catalog listing.
// They are applied here, at the request boundary, and nowhere else.
type CatalogDefaults struct {
	Sort       string
	Page       int
	PerPage    int
	MaxPerPage int
}

func DefaultCatalog() CatalogDefaults {
	return CatalogDefaults{
		Sort:       "name-asc",
		Page:       1,
		PerPage:    24,
		MaxPerPage: 100,
	}
}

// URL: /perfumes/all?page=2&per_page=24
// → ParsePage() → Pagination{PerPage:24, Page:2, Offset:24}
// → SQL: ... LIMIT 24 OFFSET 24
// → count query returns total
// → ComputeMeta(total) → TotalPages, HasNext, HasPrev
type Pagination struct {
	PerPage    int  `json:"per_page"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePage reads ?page=...&per_page=... strictly: a present but malformed or
// out-of-range value is an error, an absent one takes the default.
func ParsePage(q url.Values, d CatalogDefaults) (Pagination, error) {
	p := Pagination{
		Page:    d.Page,
		PerPage: d.PerPage,
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return Pagination{}, ErrInvalidPage
		}
		p.Page = page
	}

	if sizeStr := strings.TrimSpace(q.Get("per_page")); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 || size > d.MaxPerPage {
			return Pagination{}, ErrInvalidPageSize
		}
		p.PerPage = size
	}

	// a page this far past the end is empty anyway; keep the offset in range
	if maxPage := math.MaxInt/p.PerPage + 1; p.Page > maxPage {
		p.Page = maxPage
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p, nil
}

// ParsePriceBound returns nil when the value is absent or not a finite number;
// a bad bound is ignored rather than rejected.
func ParsePriceBound(q url.Values, key string) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	p.TotalPages = TotalPages(total, p.PerPage)
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page < p.TotalPages
}

// TotalPages is ceil(total / perPage); zero items means zero pages.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// ParseLimit reads a small positive ?limit= used by the non-paginated lists,
// clamping to max and falling back to def when absent or malformed.
func ParseLimit(q url.Values, def, max int) int {
	limitStr := strings.TrimSpace(q.Get("limit"))
	if limitStr == "" {
		return def
	}
	limit, err := strconv.Atoi(limitStr)
	switch {
	case err != nil || limit <= 0:
		return def
	case limit > max:
		return max
	default:
		return limit
	}
}

// ParseIDList parses "1, 2,x,3" into the positive ids it contains, dropping
// anything that is not a positive integer and keeping first-seen order.
func ParseIDList(raw string) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
