package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parfumvilag/internal/domain/brands"
	"parfumvilag/internal/domain/catalogimport"
	"parfumvilag/internal/domain/notes"
	"parfumvilag/internal/domain/offers"
	"parfumvilag/internal/domain/perfumenotes"
	"parfumvilag/internal/domain/perfumes"
	"parfumvilag/internal/domain/reviews"
	"parfumvilag/internal/domain/savedperfumes"
	"parfumvilag/internal/domain/users"
)

type Container struct {
	pool          *pgxpool.Pool
	Perfumes      perfumes.Store
	Brands        brands.Store
	Notes         notes.Store
	Offers        offers.Store
	PerfumeNotes  perfumenotes.Store
	Users         users.Store
	Reviews       reviews.Store
	SavedPerfumes savedperfumes.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:          db,
		Perfumes:      perfumes.NewRepository(db),
		Brands:        brands.NewRepository(db),
		Notes:         notes.NewRepository(db),
		Offers:        offers.NewRepository(db),
		PerfumeNotes:  perfumenotes.NewRepository(db),
		Users:         users.NewRepository(db),
		Reviews:       reviews.NewRepository(db),
		SavedPerfumes: savedperfumes.NewRepository(db),
	}
}

// WithImportTx runs fn with a catalog import store bound to one transaction.
// The transaction commits only if fn returns nil.
func (c *Container) WithImportTx(ctx context.Context, fn func(s catalogimport.Store) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if err := fn(catalogimport.NewRepository(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
