// Package catalogimport writes feed entries into the catalog tables. It is
// always used inside a transaction opened by storage.Container.WithImportTx.
package catalogimport

import (
	"context"
	"fmt"

	"parfumvilag/internal/db"
)

type Store interface {
	UpsertBrand(ctx context.Context, name string) (int64, error)
	UpsertNote(ctx context.Context, name, noteType string) (int64, error)
	InsertPerfume(ctx context.Context, p Perfume) (int64, error)
	InsertOffer(ctx context.Context, o Offer) error
	LinkNote(ctx context.Context, perfumeID, noteID int64) error
}

type Perfume struct {
	Name        string
	BrandID     int64
	Gender      string
	Type        string
	Description string
	ImageURL    string
}

type Offer struct {
	PerfumeID int64
	StoreName string
	URL       string
	Price     *float64
	Currency  string
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{db: q}
}

// UpsertBrand returns the id of the brand called name, creating it if needed.
func (r *Repository) UpsertBrand(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO brands (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert brand %q: %w", name, err)
	}
	return id, nil
}

func (r *Repository) UpsertNote(ctx context.Context, name, noteType string) (int64, error) {
	query := `
		INSERT INTO notes (name, type) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, name, noteType).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert note %q: %w", name, err)
	}
	return id, nil
}

func (r *Repository) InsertPerfume(ctx context.Context, p Perfume) (int64, error) {
	query := `
		INSERT INTO perfumes (name, brand_id, gender, type, description, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, p.Name, p.BrandID, p.Gender, p.Type, p.Description, p.ImageURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert perfume %q: %w", p.Name, err)
	}
	return id, nil
}

func (r *Repository) InsertOffer(ctx context.Context, o Offer) error {
	query := `
		INSERT INTO stores (perfume_id, store_name, url, price, currency)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, o.PerfumeID, o.StoreName, o.URL, o.Price, o.Currency); err != nil {
		return fmt.Errorf("insert offer for perfume %d: %w", o.PerfumeID, err)
	}
	return nil
}

func (r *Repository) LinkNote(ctx context.Context, perfumeID, noteID int64) error {
	query := `
		INSERT INTO perfume_notes (perfume_id, note_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, perfumeID, noteID); err != nil {
		return fmt.Errorf("link note %d to perfume %d: %w", noteID, perfumeID, err)
	}
	return nil
}
