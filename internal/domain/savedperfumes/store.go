package savedperfumes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

type Store interface {
	List(ctx context.Context, userID int64) ([]int64, error)
	Save(ctx context.Context, userID, perfumeID int64) (created bool, err error)
	Remove(ctx context.Context, userID, perfumeID int64) error
	Toggle(ctx context.Context, userID, perfumeID int64) (saved bool, err error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// List returns the ids of the user's saved perfumes, newest first.
func (r *Repository) List(ctx context.Context, userID int64) ([]int64, error) {
	query := `
	   SELECT perfume_id FROM saved_perfumes
	   WHERE user_id = $1
	   ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved perfumes: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("list saved perfumes: %w", err)
	}
	return ids, nil
}

// Save reports created=false when the pair already existed.
func (r *Repository) Save(ctx context.Context, userID, perfumeID int64) (bool, error) {
	query := `
           INSERT INTO saved_perfumes (user_id, perfume_id) VALUES ($1, $2)
           ON CONFLICT (user_id, perfume_id) DO NOTHING
           RETURNING id
   `

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var id int64
	err := r.db.QueryRow(ctx, query, userID, perfumeID).Scan(&id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case db.PgErrorCode(err) == db.ForeignKeyViolation:
		return false, ErrUnknownPerfume
	default:
		return false, fmt.Errorf("save perfume: %w", err)
	}
}

func (r *Repository) Remove(ctx context.Context, userID, perfumeID int64) error {
	query := `
	   DELETE FROM saved_perfumes
	   WHERE user_id = $1 AND perfume_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, userID, perfumeID)
	if err != nil {
		return fmt.Errorf("remove saved perfume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle removes the pair if present and inserts it otherwise, in one
// statement. It returns whether the perfume is saved afterwards.
func (r *Repository) Toggle(ctx context.Context, userID, perfumeID int64) (bool, error) {
	query := `
	   WITH deleted AS (
	       DELETE FROM saved_perfumes
	       WHERE user_id = $1 AND perfume_id = $2
	       RETURNING 1
	   ), inserted AS (
	       INSERT INTO saved_perfumes (user_id, perfume_id)
	       SELECT $1, $2
	       WHERE NOT EXISTS (SELECT 1 FROM deleted)
	       ON CONFLICT (user_id, perfume_id) DO NOTHING
	       RETURNING 1
	   )
	   SELECT EXISTS (SELECT 1 FROM inserted)
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var saved bool
	if err := r.db.QueryRow(ctx, query, userID, perfumeID).Scan(&saved); err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return false, ErrUnknownPerfume
		}
		return false, fmt.Errorf("toggle saved perfume: %w", err)
	}
	return saved, nil
}
