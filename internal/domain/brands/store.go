package brands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

var (
	ErrNotFound  = errors.New("brand not found")
	ErrDuplicate = errors.New("brand with this name already exists")
)

type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	List(ctx context.Context) ([]Brand, error)
	GetByID(ctx context.Context, id int64) (*Brand, error)
	Create(ctx context.Context, b *Brand) error
	Update(ctx context.Context, b *Brand) error
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// List returns brands alphabetically; the catalog's brand facet is built from it.
func (r *Repository) List(ctx context.Context) ([]Brand, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	out := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Brand, error) {
	b := &Brand{}
	err := r.db.QueryRow(ctx, `SELECT id, name, created_at FROM brands WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

func (r *Repository) Create(ctx context.Context, b *Brand) error {
	err := r.db.QueryRow(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id, created_at`, b.Name).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, b *Brand) error {
	err := r.db.QueryRow(ctx, `UPDATE brands SET name = $1 WHERE id = $2 RETURNING created_at`, b.Name, b.ID).
		Scan(&b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	return nil
}

// Delete leaves the brand's perfumes in place with brand_id set to NULL.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
