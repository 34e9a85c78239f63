package feed

import (
	"context"

	"go.uber.org/zap"

	"parfumvilag/internal/domain/catalogimport"
)

const defaultNoteType = "unknown"

// TxRunner opens one import transaction; storage.Container implements it.
type TxRunner interface {
	WithImportTx(ctx context.Context, fn func(s catalogimport.Store) error) error
}

type Importer struct {
	tx        TxRunner
	logger    *zap.SugaredLogger
	StoreName string
	Currency  string
}

type Summary struct {
	Perfumes int `json:"perfumes"`
	Brands   int `json:"brands"`
	Notes    int `json:"notes"`
	Links    int `json:"links"`
}

func NewImporter(tx TxRunner, logger *zap.SugaredLogger, storeName, currency string) *Importer {
	return &Importer{tx: tx, logger: logger, StoreName: storeName, Currency: currency}
}

// Import writes all items in a single transaction. Any failure rolls back
// the whole feed.
func (im *Importer) Import(ctx context.Context, items []Item) (Summary, error) {
	var sum Summary

	err := im.tx.WithImportTx(ctx, func(s catalogimport.Store) error {
		sum = Summary{}
		brandIDs := map[string]int64{}
		noteIDs := map[string]int64{}

		for i, it := range items {
			brandID, ok := brandIDs[it.Brand]
			if !ok {
				id, err := s.UpsertBrand(ctx, it.Brand)
				if err != nil {
					return err
				}
				brandID = id
				brandIDs[it.Brand] = id
				sum.Brands++
			}

			perfumeID, err := s.InsertPerfume(ctx, catalogimport.Perfume{
				Name:        it.Name,
				BrandID:     brandID,
				Gender:      it.Gender,
				Type:        it.Type,
				Description: it.Description,
				ImageURL:    it.ImageURL,
			})
			if err != nil {
				return err
			}
			sum.Perfumes++

			err = s.InsertOffer(ctx, catalogimport.Offer{
				PerfumeID: perfumeID,
				StoreName: im.StoreName,
				URL:       it.Link,
				Price:     it.Price,
				Currency:  im.Currency,
			})
			if err != nil {
				return err
			}

			for _, name := range it.Notes {
				noteID, ok := noteIDs[name]
				if !ok {
					id, err := s.UpsertNote(ctx, name, defaultNoteType)
					if err != nil {
						return err
					}
					noteID = id
					noteIDs[name] = id
					sum.Notes++
				}
				if err := s.LinkNote(ctx, perfumeID, noteID); err != nil {
					return err
				}
				sum.Links++
			}

			if (i+1)%500 == 0 {
				im.logger.Infow("import progress", "processed", i+1, "total", len(items))
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	im.logger.Infow("feed imported",
		"perfumes", sum.Perfumes, "brands", sum.Brands, "notes", sum.Notes, "links", sum.Links)
	return sum, nil
}
