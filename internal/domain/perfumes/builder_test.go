package perfumes

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parfumvilag/internal/params"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// maxPlaceholder returns the highest $n referenced in sql.
func maxPlaceholder(t *testing.T, sql string) int {
	t.Helper()
	highest := 0
	for _, m := range placeholderRe.FindAllStringSubmatch(sql, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		if n > highest {
			highest = n
		}
	}
	return highest
}

func ptr(f float64) *float64 { return &f }

func TestBuildCatalogQueries_NoFilters(t *testing.T) {
	q := buildCatalogQueries(Filter{}, 24, 0)

	assert.NotContains(t, q.list.sql, "\nWHERE")
	assert.NotContains(t, q.list.sql, "\nHAVING")
	assert.NotContains(t, q.list.sql, "1=1")
	assert.Contains(t, q.list.sql, "LEFT JOIN notes n")
	assert.Contains(t, q.list.sql, "GROUP BY p.id, b.id")
	assert.Contains(t, q.list.sql, "ORDER BY p.name ASC, p.id ASC")
	assert.Contains(t, q.list.sql, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{24, 0}, q.list.args)

	assert.Empty(t, q.count.args)
	assert.NotContains(t, q.count.sql, "LIMIT")
	assert.NotContains(t, q.count.sql, "ORDER BY")
	assert.True(t, strings.HasPrefix(q.count.sql, "SELECT COUNT(*) FROM ("))
}

func TestBuildCatalogQueries_AllFilters(t *testing.T) {
	f := Filter{
		Query:    "rose",
		Brand:    "Dior",
		Note:     "Vanilla",
		Gender:   "female",
		MinPrice: ptr(5000),
		MaxPrice: ptr(20000),
		Sort:     SortPriceDesc,
	}
	q := buildCatalogQueries(f, 10, 20)

	wantShared := []any{"%rose%", "%rose%", "Dior", "Vanilla", "female", 5000.0, 20000.0}
	assert.Equal(t, wantShared, q.count.args)
	assert.Equal(t, append(append([]any{}, wantShared...), 10, 20), q.list.args)

	assert.Contains(t, q.list.sql, "WHERE (p.name ILIKE $1 OR b.name ILIKE $2) AND b.name = $3 AND n.name = $4 AND p.gender = $5")
	assert.Contains(t, q.list.sql, "HAVING MIN(s.price)::float8 >= $6 AND MIN(s.price)::float8 <= $7")
	assert.Contains(t, q.list.sql, "LIMIT $8 OFFSET $9")
	assert.Contains(t, q.list.sql, "INNER JOIN notes n")
	assert.Contains(t, q.list.sql, "ORDER BY (MIN(s.price)::float8 IS NULL) ASC, MIN(s.price)::float8 DESC, p.id ASC")

	assert.Equal(t, len(q.count.args), maxPlaceholder(t, q.count.sql))
	assert.Equal(t, len(q.list.args), maxPlaceholder(t, q.list.sql))
}

func TestBuildCatalogQueries_PriceOnlyStartsAtOne(t *testing.T) {
	q := buildCatalogQueries(Filter{MaxPrice: ptr(15000)}, 24, 24)

	assert.NotContains(t, q.list.sql, "\nWHERE")
	assert.Contains(t, q.list.sql, "HAVING MIN(s.price)::float8 <= $1")
	assert.Contains(t, q.list.sql, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{15000.0, 24, 24}, q.list.args)
	assert.Equal(t, []any{15000.0}, q.count.args)
}

// Every subset of facets must keep placeholders and args aligned.
func TestBuildCatalogQueries_PlaceholdersMatchArgs(t *testing.T) {
	facets := []func(*Filter){
		func(f *Filter) { f.Query = "a" },
		func(f *Filter) { f.Brand = "b" },
		func(f *Filter) { f.Note = "c" },
		func(f *Filter) { f.Gender = "male" },
		func(f *Filter) { f.MinPrice = ptr(1) },
		func(f *Filter) { f.MaxPrice = ptr(2) },
	}

	for mask := 0; mask < 1<<len(facets); mask++ {
		var f Filter
		for i, apply := range facets {
			if mask&(1<<i) != 0 {
				apply(&f)
			}
		}
		q := buildCatalogQueries(f, 24, 0)

		assert.Equal(t, len(q.list.args), maxPlaceholder(t, q.list.sql), "mask %b", mask)
		assert.Equal(t, len(q.count.args), maxPlaceholder(t, q.count.sql), "mask %b", mask)
		assert.Equal(t, q.count.args, q.list.args[:len(q.list.args)-2], "mask %b", mask)
	}
}

func TestBuildCatalogQueries_BlankFacetsIgnored(t *testing.T) {
	q := buildCatalogQueries(Filter{Query: "   ", Brand: "\t", Note: " "}, 24, 0)

	assert.NotContains(t, q.list.sql, "\nWHERE")
	assert.Contains(t, q.list.sql, "LEFT JOIN notes n")
	assert.Equal(t, []any{24, 0}, q.list.args)
}

func TestBuildCatalogQueries_EscapesLikeWildcards(t *testing.T) {
	q := buildCatalogQueries(Filter{Query: `50%_off\`}, 24, 0)

	assert.Equal(t, `%50\%\_off\\%`, q.count.args[0])
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		sort Sort
		want string
	}{
		{SortNameAsc, "ORDER BY p.name ASC, p.id ASC"},
		{SortNameDesc, "ORDER BY p.name DESC, p.id ASC"},
		{SortPriceAsc, "ORDER BY (MIN(s.price)::float8 IS NULL) ASC, MIN(s.price)::float8 ASC, p.id ASC"},
		{SortPriceDesc, "ORDER BY (MIN(s.price)::float8 IS NULL) ASC, MIN(s.price)::float8 DESC, p.id ASC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.sort))
		})
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price-asc"))
	assert.Equal(t, SortNameDesc, ParseSort(" name-desc "))
	assert.Equal(t, SortNameAsc, ParseSort(""))
	assert.Equal(t, SortNameAsc, ParseSort("rating-desc"))
}

func TestClauseBuilder_PanicsOnMarkerMismatch(t *testing.T) {
	b := &clauseBuilder{}
	assert.Panics(t, func() { b.add(clauseWhere, "a = ? AND b = ?", 1) })
}

func TestClauseBuilder_HavingNumberedAfterWhere(t *testing.T) {
	b := &clauseBuilder{}
	b.add(clauseHaving, "h > ?", 3)
	b.add(clauseWhere, "w = ?", 1)
	b.add(clauseWhere, "v = ?", 2)

	c := b.compile()
	assert.Equal(t, "WHERE w = $1 AND v = $2", c.where)
	assert.Equal(t, "HAVING h > $3", c.having)
	assert.Equal(t, []any{1, 2, 3}, c.args)
}

func TestAssemblePage(t *testing.T) {
	pg := params.Pagination{Page: 3, PerPage: 10, Offset: 20}

	page := assemblePage(nil, 0, pg)
	assert.NotNil(t, page.Perfumes)
	assert.Empty(t, page.Perfumes)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)

	page = assemblePage([]PerfumeCard{{}}, 21, pg)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Perfumes, 1)
}
