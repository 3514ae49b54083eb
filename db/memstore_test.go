package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreGetMissing(t *testing.T) {
	s := NewMemStore()
	doc, ok, err := s.Get(context.Background(), PlacesCollection)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestMemStoreSetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Set(ctx, PlacesCollection, Document{"list": []any{"a"}, "extra": true}))
	require.NoError(t, s.Set(ctx, PlacesCollection, Document{"list": []any{"b"}}))

	doc, ok, err := s.Get(ctx, PlacesCollection)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Document{"list": []any{"b"}}, doc)
}

func TestMemStoreMergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(t, s.Set(ctx, ChecklistCollection, Document{"me": []any{"x"}, "partner": []any{"y"}}))
	require.NoError(t, s.Merge(ctx, ChecklistCollection, Document{"me": []any{"z"}}))

	doc, _, err := s.Get(ctx, ChecklistCollection)
	require.NoError(t, err)
	assert.Equal(t, []any{"z"}, doc["me"])
	assert.Equal(t, []any{"y"}, doc["partner"])
}

func TestMemStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.Set(ctx, SettingsCollection, Document{"departure_date": "2026-05-01"}))

	doc, _, _ := s.Get(ctx, SettingsCollection)
	doc["departure_date"] = "changed"

	again, _, _ := s.Get(ctx, SettingsCollection)
	assert.Equal(t, "2026-05-01", again["departure_date"])
}

func TestToDocumentNormalizesNumbers(t *testing.T) {
	doc, err := ToDocument(struct {
		Amount int `json:"amount"`
	}{Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), doc["amount"])
}
