// Package offers manages store offers: one shop's listing of a perfume,
// with its link and price.
package offers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

var (
	ErrNotFound       = errors.New("store offer not found")
	ErrUnknownPerfume = errors.New("perfume does not exist")
)

const DefaultCurrency = "HUF"

type Offer struct {
	ID        int64    `json:"id"`
	PerfumeID int64    `json:"perfume_id"`
	StoreName string   `json:"store_name"`
	URL       string   `json:"url"`
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
}

type Store interface {
	List(ctx context.Context, perfumeID *int64) ([]Offer, error)
	GetByID(ctx context.Context, id int64) (*Offer, error)
	Create(ctx context.Context, o *Offer) error
	Update(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const offerColumns = `id, perfume_id, store_name, url, price::float8, currency`

// List returns all offers, or only those of perfumeID when it is non-nil.
func (r *Repository) List(ctx context.Context, perfumeID *int64) ([]Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM stores WHERE ($1::bigint IS NULL OR perfume_id = $1) ORDER BY perfume_id, price ASC NULLS LAST, id`

	rows, err := r.db.Query(ctx, query, perfumeID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	out := []Offer{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.PerfumeID, &o.StoreName, &o.URL, &o.Price, &o.Currency); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Offer, error) {
	o := &Offer{}
	err := r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM stores WHERE id = $1`, id).
		Scan(&o.ID, &o.PerfumeID, &o.StoreName, &o.URL, &o.Price, &o.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

func (r *Repository) Create(ctx context.Context, o *Offer) error {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	query := `INSERT INTO stores (perfume_id, store_name, url, price, currency) VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.db.QueryRow(ctx, query, o.PerfumeID, o.StoreName, o.URL, o.Price, o.Currency).Scan(&o.ID)
	if err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return ErrUnknownPerfume
		}
		return fmt.Errorf("create offer: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, o *Offer) error {
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	query := `UPDATE stores SET perfume_id = $1, store_name = $2, url = $3, price = $4, currency = $5 WHERE id = $6`

	tag, err := r.db.Exec(ctx, query, o.PerfumeID, o.StoreName, o.URL, o.Price, o.Currency, o.ID)
	if err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return ErrUnknownPerfume
		}
		return fmt.Errorf("update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
