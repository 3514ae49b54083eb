package tripdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/db"
	"roadtrip/models"
)

func newRepo() (*Repo, *db.MemStore) {
	store := db.NewMemStore()
	return NewRepo(store, []string{"me", "partner"}), store
}

func TestPlacesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	empty, err := repo.LoadPlaces(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	places := []models.Place{
		{Name: "Grand Canyon", Lat: 36.0544, Lng: -112.1401, Address: "Arizona"},
		{Name: "Las Vegas", Lat: 36.1699, Lng: -115.1398},
	}
	require.NoError(t, repo.SavePlaces(ctx, places))

	got, err := repo.LoadPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, places, got)
}

func TestPlacesNullPhoto(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()
	require.NoError(t, store.Set(ctx, db.PlacesCollection, db.Document{"list": []any{
		map[string]any{"name": "Zion", "lat": 37.2, "lng": -113.0, "address": "Utah", "photo_url": nil},
	}}))

	got, err := repo.LoadPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].PhotoURL)
}

func TestHotelsMissingNightsAreFilledIn(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()
	require.NoError(t, store.Set(ctx, db.HotelsCollection, db.Document{"list": []any{
		map[string]any{"name": "Bellagio", "checkin": "2025-06-01", "checkout": "2025-06-04"},
		map[string]any{"name": "El Tovar", "checkin": "2025-06-04", "checkout": "2025-06-06", "nights": 2},
		map[string]any{"name": "Undated"},
	}}))

	got, err := repo.LoadHotels(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].Nights)
	assert.Equal(t, 2, got[1].Nights)
	assert.Zero(t, got[2].Nights)
}

func TestItineraryLoadDoesNotRewriteStorage(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()
	legacy := db.Document{"list": []any{map[string]any{"date": "2026-05-01", "time": "09:00"}}}
	require.NoError(t, store.Set(ctx, db.ItineraryCollection, legacy))

	rows, err := repo.LoadItinerary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "09:00", rows[0].StartTime)

	raw, _, _ := store.Get(ctx, db.ItineraryCollection)
	assert.Equal(t, legacy, raw)

	require.NoError(t, repo.SaveItinerary(ctx, rows))
	raw, _, _ = store.Get(ctx, db.ItineraryCollection)
	row := raw["list"].([]any)[0].(map[string]any)
	assert.Equal(t, "09:00", row["start_time"])
	assert.NotContains(t, row, "time")
}

func TestSaveChecklistMergesOneMember(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	require.NoError(t, repo.SaveChecklist(ctx, "me", []models.ChecklistItem{{Name: "passport", Checked: true}}))
	require.NoError(t, repo.SaveChecklist(ctx, "partner", []models.ChecklistItem{{Name: "hat"}}))

	lists, err := repo.LoadChecklist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ChecklistItem{{Name: "passport", Checked: true}}, lists["me"])
	assert.Equal(t, []models.ChecklistItem{{Name: "hat"}}, lists["partner"])
}

func TestSaveChecklistUnknownMember(t *testing.T) {
	repo, _ := newRepo()
	err := repo.SaveChecklist(context.Background(), "stranger", nil)
	assert.True(t, errors.Is(err, ErrUnknownMember))
}

func TestBudgetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	b, err := repo.LoadBudget(ctx)
	require.NoError(t, err)
	b.Planned[models.CategoryFuel] = 400
	b.Expenses = append(b.Expenses, models.Expense{Date: "2026-05-03", Category: "fuel", Person: "me", Amount: 52})
	require.NoError(t, repo.SaveBudget(ctx, b))

	got, err := repo.LoadBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()
	require.NoError(t, repo.SaveSettings(ctx, models.Settings{DepartureDate: "2026-05-01"}))

	s, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", s.DepartureDate)
}

type failingStore struct{ *db.MemStore }

func (*failingStore) Get(context.Context, string) (db.Document, bool, error) {
	return nil, false, errors.New("unavailable")
}

func TestLoadPropagatesStoreErrors(t *testing.T) {
	repo := NewRepo(&failingStore{MemStore: db.NewMemStore()}, []string{"me", "partner"})
	_, err := repo.LoadHotels(context.Background())
	assert.ErrorContains(t, err, "load hotels")
}
