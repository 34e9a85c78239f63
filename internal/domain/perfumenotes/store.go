package perfumenotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

var (
	ErrNotFound         = errors.New("perfume note link not found")
	ErrConflict         = errors.New("perfume already has this note")
	ErrUnknownReference = errors.New("perfume or note does not exist")
)

// Link attaches a note to a perfume.
type Link struct {
	PerfumeID int64  `json:"perfume_id" validate:"required,gt=0"`
	NoteID    int64  `json:"note_id" validate:"required,gt=0"`
	NoteName  string `json:"note_name,omitempty" validate:"-"`
}

type Store interface {
	List(ctx context.Context, perfumeID *int64) ([]Link, error)
	Create(ctx context.Context, l Link) error
	Delete(ctx context.Context, perfumeID, noteID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, perfumeID *int64) ([]Link, error) {
	query := `
		SELECT pn.perfume_id, pn.note_id, n.name
		FROM perfume_notes pn
		JOIN notes n ON n.id = pn.note_id
		WHERE ($1::bigint IS NULL OR pn.perfume_id = $1)
		ORDER BY pn.perfume_id, n.name
	`
	rows, err := r.db.Query(ctx, query, perfumeID)
	if err != nil {
		return nil, fmt.Errorf("list perfume notes: %w", err)
	}
	defer rows.Close()

	out := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.PerfumeID, &l.NoteID, &l.NoteName); err != nil {
			return nil, fmt.Errorf("scan perfume note: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, l Link) error {
	_, err := r.db.Exec(ctx, `INSERT INTO perfume_notes (perfume_id, note_id) VALUES ($1, $2)`, l.PerfumeID, l.NoteID)
	if err != nil {
		switch db.PgErrorCode(err) {
		case db.UniqueViolation:
			return ErrConflict
		case db.ForeignKeyViolation:
			return ErrUnknownReference
		}
		return fmt.Errorf("create perfume note: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, perfumeID, noteID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM perfume_notes WHERE perfume_id = $1 AND note_id = $2`, perfumeID, noteID)
	if err != nil {
		return fmt.Errorf("delete perfume note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
