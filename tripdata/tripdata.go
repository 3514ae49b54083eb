// Package tripdata loads and saves the trip collections. Every save rewrites the
// whole collection; only the checklist merges a single member's list.
package tripdata

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"roadtrip/db"
	"roadtrip/metrics"
	"roadtrip/models"
)

var ErrUnknownMember = errors.New("unknown trip member")

type Repo struct {
	store   db.DocumentStore
	members []string
}

func NewRepo(store db.DocumentStore, members []string) *Repo {
	return &Repo{store: store, members: members}
}

// Members returns the configured trip members.
func (r *Repo) Members() []string {
	return slices.Clone(r.members)
}

// IsMember reports whether name is a configured trip member.
func (r *Repo) IsMember(name string) bool {
	return slices.Contains(r.members, name)
}

func (r *Repo) set(ctx context.Context, collection string, doc db.Document) error {
	err := r.store.Set(ctx, collection, doc)
	metrics.StoreOps.WithLabelValues(collection, "set", metrics.OutcomeOf(err)).Inc()
	return err
}

func (r *Repo) load(ctx context.Context, collection string) (db.Document, error) {
	doc, ok, err := r.store.Get(ctx, collection)
	metrics.StoreOps.WithLabelValues(collection, "get", metrics.OutcomeOf(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	if !ok || doc == nil {
		return db.Document{}, nil
	}
	return doc, nil
}

func loadList[T any](ctx context.Context, r *Repo, collection string) ([]T, error) {
	doc, err := r.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if list := listOf(doc); list != nil {
		if err := db.DecodeValue(list, &out); err != nil {
			return nil, fmt.Errorf("load %s: %w", collection, err)
		}
	}
	return out, nil
}

func saveList[T any](ctx context.Context, r *Repo, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	list, err := db.ToValue(items)
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	if err := r.set(ctx, collection, db.Document{"list": list}); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

func (r *Repo) LoadPlaces(ctx context.Context) ([]models.Place, error) {
	return loadList[models.Place](ctx, r, db.PlacesCollection)
}

func (r *Repo) SavePlaces(ctx context.Context, places []models.Place) error {
	return saveList(ctx, r, db.PlacesCollection, places)
}

func (r *Repo) LoadItinerary(ctx context.Context) ([]models.ItineraryRow, error) {
	doc, err := r.load(ctx, db.ItineraryCollection)
	if err != nil {
		return nil, err
	}
	return MigrateItinerary(doc), nil
}

func (r *Repo) SaveItinerary(ctx context.Context, rows []models.ItineraryRow) error {
	return saveList(ctx, r, db.ItineraryCollection, rows)
}

func (r *Repo) LoadFlights(ctx context.Context) ([]models.Flight, error) {
	return loadList[models.Flight](ctx, r, db.FlightsCollection)
}

func (r *Repo) SaveFlights(ctx context.Context, flights []models.Flight) error {
	return saveList(ctx, r, db.FlightsCollection, flights)
}

// LoadHotels fills in the night count for entries stored without one.
func (r *Repo) LoadHotels(ctx context.Context) ([]models.Hotel, error) {
	hotels, err := loadList[models.Hotel](ctx, r, db.HotelsCollection)
	if err != nil {
		return nil, err
	}
	for i := range hotels {
		h := &hotels[i]
		if h.Nights > 0 {
			continue
		}
		if n, err := models.Nights(h.Checkin, h.Checkout); err == nil && n > 0 {
			h.Nights = n
		}
	}
	return hotels, nil
}

func (r *Repo) SaveHotels(ctx context.Context, hotels []models.Hotel) error {
	return saveList(ctx, r, db.HotelsCollection, hotels)
}

func (r *Repo) LoadRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return loadList[models.Restaurant](ctx, r, db.RestaurantsCollection)
}

func (r *Repo) SaveRestaurants(ctx context.Context, restaurants []models.Restaurant) error {
	return saveList(ctx, r, db.RestaurantsCollection, restaurants)
}

func (r *Repo) LoadBudget(ctx context.Context) (models.Budget, error) {
	doc, err := r.load(ctx, db.BudgetCollection)
	if err != nil {
		return models.Budget{}, err
	}
	return MigrateBudget(doc), nil
}

func (r *Repo) SaveBudget(ctx context.Context, b models.Budget) error {
	if b.Expenses == nil {
		b.Expenses = []models.Expense{}
	}
	doc, err := db.ToDocument(b)
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	if err := r.set(ctx, db.BudgetCollection, doc); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

func (r *Repo) LoadChecklist(ctx context.Context) (models.Checklists, error) {
	doc, err := r.load(ctx, db.ChecklistCollection)
	if err != nil {
		return nil, err
	}
	return MigrateChecklist(doc, r.members), nil
}

// SaveChecklist writes one member's list, leaving the other member's untouched.
func (r *Repo) SaveChecklist(ctx context.Context, person string, items []models.ChecklistItem) error {
	if !r.IsMember(person) {
		return fmt.Errorf("save checklist for %q: %w", person, ErrUnknownMember)
	}
	if items == nil {
		items = []models.ChecklistItem{}
	}
	list, err := db.ToValue(items)
	if err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	err = r.store.Merge(ctx, db.ChecklistCollection, db.Document{person: list})
	metrics.StoreOps.WithLabelValues(db.ChecklistCollection, "merge", metrics.OutcomeOf(err)).Inc()
	if err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	return nil
}

func (r *Repo) LoadSettings(ctx context.Context) (models.Settings, error) {
	doc, err := r.load(ctx, db.SettingsCollection)
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{DepartureDate: cellString(doc["departure_date"])}, nil
}

func (r *Repo) SaveSettings(ctx context.Context, s models.Settings) error {
	if err := r.set(ctx, db.SettingsCollection, db.Document{"departure_date": s.DepartureDate}); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
