package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage_Defaults(t *testing.T) {
	p, err := ParsePage(url.Values{}, DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 24, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestParsePage_Offset(t *testing.T) {
	for _, tc := range []struct {
		page, perPage string
		want          int
	}{
		{"1", "1", 0},
		{"2", "24", 24},
		{"3", "100", 200},
		{"7", "10", 60},
	} {
		q := url.Values{"page": {tc.page}, "per_page": {tc.perPage}}
		p, err := ParsePage(q, DefaultCatalog())
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.Offset, "page=%s per_page=%s", tc.page, tc.perPage)
		assert.Equal(t, (p.Page-1)*p.PerPage, p.Offset)
	}
}

func TestParsePage_InvalidPage(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc", "1.5"} {
		_, err := ParsePage(url.Values{"page": {raw}}, DefaultCatalog())
		assert.ErrorIs(t, err, ErrInvalidPage, "page=%q", raw)
	}
}

func TestParsePage_HugePageKeepsOffsetNonNegative(t *testing.T) {
	for _, perPage := range []string{"1", "24", "100"} {
		q := url.Values{"page": {"9223372036854775807"}, "per_page": {perPage}}
		p, err := ParsePage(q, DefaultCatalog())
		require.NoError(t, err, "per_page=%s", perPage)

		assert.GreaterOrEqual(t, p.Offset, 0, "per_page=%s", perPage)
		assert.Equal(t, (p.Page-1)*p.PerPage, p.Offset)

		p.ComputeMeta(5)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	}
}

func TestParsePage_InvalidPageSize(t *testing.T) {
	for _, raw := range []string{"0", "-5", "101", "many"} {
		_, err := ParsePage(url.Values{"per_page": {raw}}, DefaultCatalog())
		assert.ErrorIs(t, err, ErrInvalidPageSize, "per_page=%q", raw)
	}
}

func TestParsePage_PerPageBoundaries(t *testing.T) {
	for _, raw := range []string{"1", "100"} {
		_, err := ParsePage(url.Values{"per_page": {raw}}, DefaultCatalog())
		assert.NoError(t, err, "per_page=%q", raw)
	}
}

func TestParsePriceBound(t *testing.T) {
	q := url.Values{
		"min_price": {"49.5"},
		"max_price": {"cheap"},
		"nan":       {"NaN"},
	}

	minPrice := ParsePriceBound(q, "min_price")
	require.NotNil(t, minPrice)
	assert.Equal(t, 49.5, *minPrice)

	assert.Nil(t, ParsePriceBound(q, "max_price"))
	assert.Nil(t, ParsePriceBound(q, "nan"))
	assert.Nil(t, ParsePriceBound(q, "missing"))
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Page: 2, PerPage: 10}
	p.ComputeMeta(25)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = Pagination{Page: 3, PerPage: 10}
	p.ComputeMeta(30)
	assert.False(t, p.HasNext)

	p = Pagination{Page: 1, PerPage: 24}
	p.ComputeMeta(0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 24))
	assert.Equal(t, 1, TotalPages(1, 24))
	assert.Equal(t, 1, TotalPages(24, 24))
	assert.Equal(t, 2, TotalPages(25, 24))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 5, ParseLimit(url.Values{}, 5, 50))
	assert.Equal(t, 5, ParseLimit(url.Values{"limit": {"-3"}}, 5, 50))
	assert.Equal(t, 50, ParseLimit(url.Values{"limit": {"500"}}, 5, 50))
	assert.Equal(t, 12, ParseLimit(url.Values{"limit": {"12"}}, 5, 50))
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, ParseIDList("1, 2,x,3,2,-4,0"))
	assert.Empty(t, ParseIDList("a,b"))
}
