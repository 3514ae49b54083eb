// Package session holds the per-browser planner state between requests.
package session

import (
	"sync"
	"time"

	"roadtrip/models"
	"roadtrip/segments"
)

// UI is transient state that is never persisted.
type UI struct {
	Candidates     []models.Candidate
	Preview        *models.PlaceDetail
	FailedPlaceIDs map[string]bool
	Route          *models.RouteResult
	ShowSegments   bool
}

// ClearSearch drops candidates, preview and the failed-id set.
func (u *UI) ClearSearch() {
	u.Candidates = nil
	u.Preview = nil
	u.FailedPlaceIDs = map[string]bool{}
}

// Session is one logged-in browser. Callers hold Lock for the whole request.
type Session struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time

	Places      Slot[[]models.Place]
	Itinerary   Slot[[]models.ItineraryRow]
	Flights     Slot[[]models.Flight]
	Hotels      Slot[[]models.Hotel]
	Budget      Slot[models.Budget]
	Checklist   Slot[models.Checklists]
	Restaurants Slot[[]models.Restaurant]
	Settings    Slot[models.Settings]

	UI       UI
	Segments segments.Cache
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		lastSeen: now,
		UI:       UI{FailedPlaceIDs: map[string]bool{}},
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Reload forgets every stored collection so the next access reads storage
// again. UI state is kept except for what depends on the place list.
func (s *Session) Reload() {
	s.Places.Reset()
	s.Itinerary.Reset()
	s.Flights.Reset()
	s.Hotels.Reset()
	s.Budget.Reset()
	s.Checklist.Reset()
	s.Restaurants.Reset()
	s.Settings.Reset()
	s.Segments.Invalidate()
	s.UI.Route = nil
}
