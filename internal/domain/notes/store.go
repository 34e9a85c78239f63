package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrDuplicate = errors.New("note with this name already exists")
)

// DefaultType is stored for notes whose pyramid position is not known.
const DefaultType = "unknown"

type Note struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Store interface {
	List(ctx context.Context) ([]Note, error)
	GetByID(ctx context.Context, id int64) (*Note, error)
	Create(ctx context.Context, n *Note) error
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, type FROM notes ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Name, &n.Type); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Note, error) {
	n := &Note{}
	err := r.db.QueryRow(ctx, `SELECT id, name, type FROM notes WHERE id = $1`, id).Scan(&n.ID, &n.Name, &n.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (r *Repository) Create(ctx context.Context, n *Note) error {
	if n.Type == "" {
		n.Type = DefaultType
	}
	err := r.db.QueryRow(ctx, `INSERT INTO notes (name, type) VALUES ($1, $2) RETURNING id`, n.Name, n.Type).Scan(&n.ID)
	if err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, n *Note) error {
	if n.Type == "" {
		n.Type = DefaultType
	}
	tag, err := r.db.Exec(ctx, `UPDATE notes SET name = $1, type = $2 WHERE id = $3`, n.Name, n.Type, n.ID)
	if err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
