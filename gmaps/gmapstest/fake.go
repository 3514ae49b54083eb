// Package gmapstest provides a scripted gmaps.Gateway for tests.
package gmapstest

import (
	"context"
	"fmt"
	"sync"

	"roadtrip/models"
)

// Fake answers from fixed tables and records every call.
type Fake struct {
	mu sync.Mutex

	Candidates map[string][]models.Candidate
	Details    map[string]*models.PlaceDetail
	// Routes is keyed by "origin|destination".
	Routes map[string][]models.Route
	// Errors is keyed by the same strings as the tables above and wins over them.
	Errors map[string]error

	AutocompleteCalls []string
	DetailCalls       []string
	DirectionsCalls   []string
}

func New() *Fake {
	return &Fake{
		Candidates: map[string][]models.Candidate{},
		Details:    map[string]*models.PlaceDetail{},
		Routes:     map[string][]models.Route{},
		Errors:     map[string]error{},
	}
}

func RouteKey(origin, destination string) string {
	return origin + "|" + destination
}

func (f *Fake) Autocomplete(_ context.Context, query string) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AutocompleteCalls = append(f.AutocompleteCalls, query)
	if err := f.Errors[query]; err != nil {
		return nil, err
	}
	return append([]models.Candidate(nil), f.Candidates[query]...), nil
}

func (f *Fake) PlaceDetail(_ context.Context, placeID string) (*models.PlaceDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetailCalls = append(f.DetailCalls, placeID)
	if err := f.Errors[placeID]; err != nil {
		return nil, err
	}
	d, ok := f.Details[placeID]
	if !ok {
		return nil, fmt.Errorf("fake: unknown place %q", placeID)
	}
	cp := *d
	return &cp, nil
}

func (f *Fake) Directions(_ context.Context, origin, destination string) ([]models.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := RouteKey(origin, destination)
	f.DirectionsCalls = append(f.DirectionsCalls, key)
	if err := f.Errors[key]; err != nil {
		return nil, err
	}
	return append([]models.Route(nil), f.Routes[key]...), nil
}

// DirectionsCount is the number of Directions calls so far.
func (f *Fake) DirectionsCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.DirectionsCalls)
}

// Reset forgets recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AutocompleteCalls, f.DetailCalls, f.DirectionsCalls = nil, nil, nil
}
