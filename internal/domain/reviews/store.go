package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	ListByPerfume(ctx context.Context, perfumeID int64) ([]Review, error)
	Summary(ctx context.Context, perfumeID int64) (Summary, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, reviewID, userID int64) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const reviewColumns = `
	r.id, r.perfume_id, r.user_id, r.scent_trail_rating, r.longevity_rating, r.value_rating,
	r.overall_impression, r.review_text, r.created_at, r.updated_at, u.name, u.profile_picture_url`

func scanReview(row pgx.Row, review *Review) error {
	return row.Scan(
		&review.ID,
		&review.PerfumeID,
		&review.UserID,
		&review.ScentTrailRating,
		&review.LongevityRating,
		&review.ValueRating,
		&review.OverallImpression,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.UserName,
		&review.AvatarURL,
	)
}

// Create fails with ErrConflict when the user already reviewed the perfume.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (perfume_id, user_id, scent_trail_rating, longevity_rating, value_rating, overall_impression, review_text)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.PerfumeID,
		review.UserID,
		review.ScentTrailRating,
		review.LongevityRating,
		review.ValueRating,
		review.OverallImpression,
		review.ReviewText,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		switch db.PgErrorCode(err) {
		case db.UniqueViolation:
			return ErrConflict
		case db.ForeignKeyViolation:
			return ErrUnknownPerfume
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	query := `SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = $1`

	review := &Review{}
	if err := scanReview(r.db.QueryRow(ctx, query, id), review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// ListByPerfume returns the perfume's reviews newest first.
func (r *Repository) ListByPerfume(ctx context.Context, perfumeID int64) ([]Review, error) {
	query := `SELECT ` + reviewColumns + `
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.perfume_id = $1
        ORDER BY r.created_at DESC, r.id DESC`

	rows, err := r.db.Query(ctx, query, perfumeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var review Review
		if err := scanReview(rows, &review); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *Repository) Summary(ctx context.Context, perfumeID int64) (Summary, error) {
	query := `
        SELECT COUNT(*),
               COALESCE(AVG(scent_trail_rating), 0)::float8,
               COALESCE(AVG(longevity_rating), 0)::float8,
               COALESCE(AVG(value_rating), 0)::float8,
               COALESCE(AVG(overall_impression), 0)::float8
        FROM reviews
        WHERE perfume_id = $1
    `
	var s Summary
	err := r.db.QueryRow(ctx, query, perfumeID).Scan(
		&s.Total,
		&s.Averages.ScentTrail,
		&s.Averages.Longevity,
		&s.Averages.Value,
		&s.Averages.Overall,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("review summary: %w", err)
	}
	return s, nil
}

// Update rewrites the ratings and text of a review owned by review.UserID.
// A review owned by someone else is reported as ErrNotFound.
func (r *Repository) Update(ctx context.Context, review *Review) error {
	query := `
        UPDATE reviews
        SET scent_trail_rating = $1, longevity_rating = $2, value_rating = $3,
            overall_impression = $4, review_text = $5, updated_at = now()
        WHERE id = $6 AND user_id = $7
        RETURNING perfume_id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.ScentTrailRating,
		review.LongevityRating,
		review.ValueRating,
		review.OverallImpression,
		review.ReviewText,
		review.ID,
		review.UserID,
	).Scan(&review.PerfumeID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, reviewID, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
