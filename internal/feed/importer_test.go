package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parfumvilag/internal/domain/catalogimport"
)

type fakeImportStore struct {
	brands   map[string]int64
	notes    map[string]int64
	perfumes []catalogimport.Perfume
	offers   []catalogimport.Offer
	links    [][2]int64
	failOn   string
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{brands: map[string]int64{}, notes: map[string]int64{}}
}

func (f *fakeImportStore) UpsertBrand(_ context.Context, name string) (int64, error) {
	if id, ok := f.brands[name]; ok {
		return id, nil
	}
	f.brands[name] = int64(len(f.brands) + 1)
	return f.brands[name], nil
}

func (f *fakeImportStore) UpsertNote(_ context.Context, name, _ string) (int64, error) {
	if id, ok := f.notes[name]; ok {
		return id, nil
	}
	f.notes[name] = int64(len(f.notes) + 1)
	return f.notes[name], nil
}

func (f *fakeImportStore) InsertPerfume(_ context.Context, p catalogimport.Perfume) (int64, error) {
	if p.Name == f.failOn {
		return 0, errors.New("insert failed")
	}
	f.perfumes = append(f.perfumes, p)
	return int64(len(f.perfumes)), nil
}

func (f *fakeImportStore) InsertOffer(_ context.Context, o catalogimport.Offer) error {
	f.offers = append(f.offers, o)
	return nil
}

func (f *fakeImportStore) LinkNote(_ context.Context, perfumeID, noteID int64) error {
	f.links = append(f.links, [2]int64{perfumeID, noteID})
	return nil
}

type fakeTx struct {
	store     *fakeImportStore
	committed bool
}

func (t *fakeTx) WithImportTx(_ context.Context, fn func(s catalogimport.Store) error) error {
	if err := fn(t.store); err != nil {
		return err
	}
	t.committed = true
	return nil
}

func price(v float64) *float64 { return &v }

func TestImporter_Import(t *testing.T) {
	tx := &fakeTx{store: newFakeImportStore()}
	im := NewImporter(tx, zap.NewNop().Sugar(), "Notino", "HUF")

	items := []Item{
		{Name: "Sauvage", Brand: "Dior", Gender: "male", Type: "Eau de Toilette", Link: "https://a", Price: price(38990), Notes: []string{"fás", "friss"}},
		{Name: "J'adore", Brand: "Dior", Gender: "female", Type: "Eau de Parfum", Link: "https://b", Notes: []string{"virágos", "friss"}},
	}

	sum, err := im.Import(context.Background(), items)
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, Summary{Perfumes: 2, Brands: 1, Notes: 3, Links: 4}, sum)

	require.Len(t, tx.store.perfumes, 2)
	assert.Equal(t, int64(1), tx.store.perfumes[1].BrandID)
	require.Len(t, tx.store.offers, 2)
	assert.Equal(t, "Notino", tx.store.offers[0].StoreName)
	assert.Equal(t, "HUF", tx.store.offers[0].Currency)
	assert.Nil(t, tx.store.offers[1].Price)
	assert.Contains(t, tx.store.links, [2]int64{2, tx.store.notes["friss"]})
}

func TestImporter_FailureAborts(t *testing.T) {
	store := newFakeImportStore()
	store.failOn = "Broken"
	tx := &fakeTx{store: store}
	im := NewImporter(tx, zap.NewNop().Sugar(), "Notino", "HUF")

	_, err := im.Import(context.Background(), []Item{{Name: "Ok", Brand: "A"}, {Name: "Broken", Brand: "A"}})
	assert.Error(t, err)
	assert.False(t, tx.committed)
}
