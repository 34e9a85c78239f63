package perfumes

import (
	"fmt"
	"strconv"
	"strings"
)

type clauseKind int

const (
	clauseWhere clauseKind = iota
	clauseHaving
)

// clause is one predicate. Its text marks bind positions with '?'; the
// builder numbers them when rendering.
type clause struct {
	kind clauseKind
	text string
	args []any
}

// clauseBuilder keeps predicate text and bound values together so the
// rendered $n placeholders and the args slice are produced in one pass.
type clauseBuilder struct {
	clauses []clause
}

func (b *clauseBuilder) add(kind clauseKind, text string, args ...any) {
	if n := strings.Count(text, "?"); n != len(args) {
		panic(fmt.Sprintf("perfumes: clause %q has %d markers but %d args", text, n, len(args)))
	}
	b.clauses = append(b.clauses, clause{kind: kind, text: text, args: args})
}

type compiledClauses struct {
	where  string
	having string
	args   []any
}

// compile renders WHERE before HAVING, matching the order the clauses appear
// in the statement, so positional numbering follows SQL clause order no
// matter the order add was called in.
func (b *clauseBuilder) compile() compiledClauses {
	var out compiledClauses
	next := 1

	render := func(kind clauseKind) []string {
		var parts []string
		for _, c := range b.clauses {
			if c.kind != kind {
				continue
			}
			var sb strings.Builder
			for _, r := range c.text {
				if r == '?' {
					sb.WriteString("$" + strconv.Itoa(next))
					next++
					continue
				}
				sb.WriteRune(r)
			}
			parts = append(parts, sb.String())
			out.args = append(out.args, c.args...)
		}
		return parts
	}

	if parts := render(clauseWhere); len(parts) > 0 {
		out.where = "WHERE " + strings.Join(parts, " AND ")
	}
	if parts := render(clauseHaving); len(parts) > 0 {
		out.having = "HAVING " + strings.Join(parts, " AND ")
	}
	return out
}

// priceExpr is the derived price. Stores with a non-positive or NULL price
// are excluded by the join condition in fromClause.
const priceExpr = "MIN(s.price)::float8"

const cardColumns = `
	p.id, p.name, p.brand_id, p.gender, p.type, p.description, p.image_url, p.is_featured, p.created_at,
	b.name AS brand_name,
	` + priceExpr + ` AS price,
	COALESCE(array_agg(DISTINCT n.name) FILTER (WHERE n.name IS NOT NULL), '{}') AS notes`

const groupBy = "GROUP BY p.id, b.id"

func fromClause(noteJoin string) string {
	return `
FROM perfumes p
LEFT JOIN brands b ON b.id = p.brand_id
LEFT JOIN stores s ON s.perfume_id = p.id AND s.price > 0
` + noteJoin + ` perfume_notes pn ON pn.perfume_id = p.id
` + noteJoin + ` notes n ON n.id = pn.note_id`
}

// filterClauses emits the facet predicates in the fixed order query, brand,
// note, gender, followed by the price bounds on the aggregate.
func filterClauses(f Filter) *clauseBuilder {
	b := &clauseBuilder{}

	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		b.add(clauseWhere, "(p.name ILIKE ? OR b.name ILIKE ?)", pattern, pattern)
	}
	if f.Brand != "" {
		b.add(clauseWhere, "b.name = ?", f.Brand)
	}
	if f.Note != "" {
		b.add(clauseWhere, "n.name = ?", f.Note)
	}
	if f.Gender != "" {
		b.add(clauseWhere, "p.gender = ?", f.Gender)
	}

	if f.MinPrice != nil {
		b.add(clauseHaving, priceExpr+" >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add(clauseHaving, priceExpr+" <= ?", *f.MaxPrice)
	}
	return b
}

// orderBy puts perfumes without a derived price last for both price
// directions; p.id breaks ties so pages do not overlap.
func orderBy(s Sort) string {
	switch s {
	case SortNameDesc:
		return "ORDER BY p.name DESC, p.id ASC"
	case SortPriceAsc:
		return "ORDER BY (" + priceExpr + " IS NULL) ASC, " + priceExpr + " ASC, p.id ASC"
	case SortPriceDesc:
		return "ORDER BY (" + priceExpr + " IS NULL) ASC, " + priceExpr + " DESC, p.id ASC"
	default:
		return "ORDER BY p.name ASC, p.id ASC"
	}
}

type statement struct {
	sql  string
	args []any
}

type catalogQueries struct {
	list  statement
	count statement
}

// buildCatalogQueries produces the listing and count statements for one
// request. Both share FROM/JOIN/WHERE/GROUP BY/HAVING and the same leading
// args; only the listing adds ORDER BY and LIMIT/OFFSET.
func buildCatalogQueries(f Filter, limit, offset int) catalogQueries {
	f = f.Normalize()
	c := filterClauses(f).compile()
	from := fromClause(f.NoteJoin())

	body := joinNonEmpty(from, c.where, groupBy, c.having)

	n := len(c.args)
	listArgs := make([]any, 0, n+2)
	listArgs = append(listArgs, c.args...)
	listArgs = append(listArgs, limit, offset)

	listSQL := "SELECT" + cardColumns + body + "\n" + orderBy(f.Sort) +
		fmt.Sprintf("\nLIMIT $%d OFFSET $%d", n+1, n+2)

	countArgs := make([]any, n)
	copy(countArgs, c.args)
	countSQL := "SELECT COUNT(*) FROM (\nSELECT p.id" + body + "\n) AS matched"

	return catalogQueries{
		list:  statement{sql: listSQL, args: listArgs},
		count: statement{sql: countSQL, args: countArgs},
	}
}

func joinNonEmpty(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(p)
	}
	return sb.String()
}
