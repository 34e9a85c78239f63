package perfumes

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"parfumvilag/internal/db"
	"parfumvilag/internal/params"
)

var (
	ErrNotFound     = errors.New("perfume not found")
	ErrInvalidBrand = errors.New("brand does not exist")
)

// Price range reported when no store carries a positive price.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 100000
)

// QueryError carries the failing statement so handlers can log it.
type QueryError struct {
	Op  string
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

type Store interface {
	List(ctx context.Context, f Filter, pg params.Pagination) (*Page, error)
	PriceRange(ctx context.Context) (PriceRange, error)
	Random(ctx context.Context, limit int) ([]PerfumeCard, error)
	Featured(ctx context.Context) ([]PerfumeCard, error)
	GetByIDs(ctx context.Context, ids []int64) ([]PerfumeCard, error)
	GetDetail(ctx context.Context, id int64) (*PerfumeDetail, error)
	Exists(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, p *Perfume) error
	Update(ctx context.Context, p *Perfume) error
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// List runs the listing and count statements for f concurrently and
// assembles one page. If either statement fails no partial page is returned.
func (r *Repository) List(ctx context.Context, f Filter, pg params.Pagination) (*Page, error) {
	q := buildCatalogQueries(f, pg.PerPage, pg.Offset)

	var (
		cards []PerfumeCard
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = r.queryCards(gctx, q.list.sql, q.list.args...)
		if err != nil {
			return &QueryError{Op: "list perfumes", SQL: q.list.sql, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.QueryRow(gctx, q.count.sql, q.count.args...).Scan(&total); err != nil {
			return &QueryError{Op: "count perfumes", SQL: q.count.sql, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemblePage(cards, total, pg), nil
}

func assemblePage(cards []PerfumeCard, total int, pg params.Pagination) *Page {
	if cards == nil {
		cards = []PerfumeCard{}
	}
	pg.ComputeMeta(total)
	return &Page{
		Perfumes:    cards,
		TotalPages:  pg.TotalPages,
		CurrentPage: pg.Page,
		Total:       pg.Total,
	}
}

func (r *Repository) PriceRange(ctx context.Context) (PriceRange, error) {
	const query = `SELECT MIN(price)::float8, MAX(price)::float8 FROM stores WHERE price > 0`

	var minPrice, maxPrice *float64
	if err := r.db.QueryRow(ctx, query).Scan(&minPrice, &maxPrice); err != nil {
		return PriceRange{}, &QueryError{Op: "price range", SQL: query, Err: err}
	}
	if minPrice == nil || maxPrice == nil {
		return PriceRange{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice}, nil
	}
	return PriceRange{MinPrice: math.Floor(*minPrice), MaxPrice: math.Ceil(*maxPrice)}, nil
}

// Random returns up to limit perfumes that have a positive store price.
func (r *Repository) Random(ctx context.Context, limit int) ([]PerfumeCard, error) {
	query := "SELECT" + cardColumns + fromClause("LEFT JOIN") + `
` + groupBy + `
HAVING ` + priceExpr + ` IS NOT NULL
ORDER BY random()
LIMIT $1`
	cards, err := r.queryCards(ctx, query, limit)
	if err != nil {
		return nil, &QueryError{Op: "random perfumes", SQL: query, Err: err}
	}
	return cards, nil
}

func (r *Repository) Featured(ctx context.Context) ([]PerfumeCard, error) {
	query := "SELECT" + cardColumns + fromClause("LEFT JOIN") + `
WHERE p.is_featured
` + groupBy + `
ORDER BY p.name ASC, p.id ASC`
	cards, err := r.queryCards(ctx, query)
	if err != nil {
		return nil, &QueryError{Op: "featured perfumes", SQL: query, Err: err}
	}
	return cards, nil
}

// GetByIDs returns cards for the given ids in the order requested. Unknown
// ids are skipped.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]PerfumeCard, error) {
	if len(ids) == 0 {
		return []PerfumeCard{}, nil
	}
	query := "SELECT" + cardColumns + fromClause("LEFT JOIN") + `
WHERE p.id = ANY($1)
` + groupBy + `
ORDER BY array_position($1::bigint[], p.id)`
	cards, err := r.queryCards(ctx, query, ids)
	if err != nil {
		return nil, &QueryError{Op: "perfumes by ids", SQL: query, Err: err}
	}
	return cards, nil
}

func (r *Repository) GetDetail(ctx context.Context, id int64) (*PerfumeDetail, error) {
	const query = `
SELECT p.id, p.name, p.brand_id, p.gender, p.type, p.description, p.image_url, p.is_featured, p.created_at,
	b.name,
	COALESCE(array_agg(DISTINCT n.name) FILTER (WHERE n.name IS NOT NULL), '{}')
FROM perfumes p
LEFT JOIN brands b ON b.id = p.brand_id
LEFT JOIN perfume_notes pn ON pn.perfume_id = p.id
LEFT JOIN notes n ON n.id = pn.note_id
WHERE p.id = $1
GROUP BY p.id, b.id`

	d := &PerfumeDetail{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.BrandID, &d.Gender, &d.Type, &d.Description, &d.ImageURL, &d.IsFeatured, &d.CreatedAt,
		&d.BrandName, &d.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &QueryError{Op: "perfume detail", SQL: query, Err: err}
	}

	const storesQuery = `
SELECT id, store_name, url, price::float8, currency
FROM stores
WHERE perfume_id = $1
ORDER BY price ASC NULLS LAST, id ASC`

	rows, err := r.db.Query(ctx, storesQuery, id)
	if err != nil {
		return nil, &QueryError{Op: "perfume stores", SQL: storesQuery, Err: err}
	}
	defer rows.Close()

	d.Stores = []StoreOffer{}
	for rows.Next() {
		var s StoreOffer
		if err := rows.Scan(&s.ID, &s.StoreName, &s.URL, &s.Price, &s.Currency); err != nil {
			return nil, &QueryError{Op: "scan perfume store", SQL: storesQuery, Err: err}
		}
		d.Stores = append(d.Stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "perfume stores", SQL: storesQuery, Err: err}
	}
	return d, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM perfumes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("perfume exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) Create(ctx context.Context, p *Perfume) error {
	const query = `
INSERT INTO perfumes (name, brand_id, gender, type, description, image_url, is_featured)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.BrandID, p.Gender, p.Type, p.Description, p.ImageURL, p.IsFeatured,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return ErrInvalidBrand
		}
		return fmt.Errorf("create perfume: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, p *Perfume) error {
	const query = `
UPDATE perfumes
SET name = $1, brand_id = $2, gender = $3, type = $4, description = $5, image_url = $6, is_featured = $7
WHERE id = $8
RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.BrandID, p.Gender, p.Type, p.Description, p.ImageURL, p.IsFeatured, p.ID,
	).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return ErrInvalidBrand
		}
		return fmt.Errorf("update perfume: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM perfumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete perfume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetImageURL(ctx context.Context, id int64, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE perfumes SET image_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set perfume image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) queryCards(ctx context.Context, query string, args ...any) ([]PerfumeCard, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []PerfumeCard{}
	for rows.Next() {
		var c PerfumeCard
		if err := rows.Scan(
			&c.ID, &c.Name, &c.BrandID, &c.Gender, &c.Type, &c.Description, &c.ImageURL, &c.IsFeatured, &c.CreatedAt,
			&c.BrandName, &c.Price, &c.Notes,
		); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
