package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/db"
)

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetProfilePicture(ctx context.Context, userID int64, url string) (previous *string, err error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password, phone, profile_picture_url, is_admin, created_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.Phone, &u.ProfilePictureURL, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	query := `
	  INSERT INTO users (name, email, password, phone) VALUES ($1, $2, $3, $4) RETURNING id, is_admin, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.db.QueryRow(ctx, query, user.Name, user.Email, user.Password.hash, user.Phone).
		Scan(&user.ID, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, err
}

// GetByEmail matches case-insensitively; emails are stored as given.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, err
}

// Update writes every mutable column. The stored hash is replaced only when
// Password.Set was called on user.
func (r *Repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, profile_picture_url = $4,
		    password = COALESCE($5, password)
		WHERE id = $6
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var hash []byte
	if user.Password.text != nil {
		hash = user.Password.hash
	}

	tag, err := r.db.Exec(ctx, query, user.Name, user.Email, user.Phone, user.ProfilePictureURL, hash, user.ID)
	if err != nil {
		if db.PgErrorCode(err) == db.UniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetProfilePicture(ctx context.Context, userID int64, url string) (*string, error) {
	query := `
		UPDATE users u
		SET profile_picture_url = $1
		FROM (SELECT profile_picture_url FROM users WHERE id = $2 FOR UPDATE) old
		WHERE u.id = $2
		RETURNING old.profile_picture_url
	`

	var previous *string
	if err := r.db.QueryRow(ctx, query, url, userID).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set profile picture: %w", err)
	}
	return previous, nil
}
