package perfumes

import "strings"

type Sort string

const (
	SortNameAsc   Sort = "name-asc"
	SortNameDesc  Sort = "name-desc"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
)

// ParseSort maps the ?sort= value onto a Sort; anything unknown is name-asc.
func ParseSort(raw string) Sort {
	switch s := Sort(strings.TrimSpace(raw)); s {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return s
	default:
		return SortNameAsc
	}
}

func (s Sort) byPrice() bool {
	return s == SortPriceAsc || s == SortPriceDesc
}

// Filter narrows the catalog listing. Empty strings and nil bounds mean
// "no filter".
type Filter struct {
	Query    string
	Brand    string
	Note     string
	Gender   string
	MinPrice *float64
	MaxPrice *float64
	Sort     Sort
}

// Normalize trims the text facets so whitespace-only input counts as absent.
func (f Filter) Normalize() Filter {
	f.Query = strings.TrimSpace(f.Query)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Note = strings.TrimSpace(f.Note)
	f.Gender = strings.TrimSpace(f.Gender)
	if f.Sort == "" {
		f.Sort = SortNameAsc
	}
	return f
}

// NoteJoin is INNER JOIN when the listing filters on a note, so perfumes
// without a matching note drop out; otherwise notes are only displayed.
func (f Filter) NoteJoin() string {
	if f.Note != "" {
		return "INNER JOIN"
	}
	return "LEFT JOIN"
}

// escapeLike makes s match literally inside a LIKE/ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
