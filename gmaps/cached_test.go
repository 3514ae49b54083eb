package gmaps

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/gmaps/gmapstest"
	"roadtrip/models"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	fail bool
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errors.New("cache down")
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mapCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache down")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

func TestCachedAutocomplete(t *testing.T) {
	fake := gmapstest.New()
	fake.Candidates["zion"] = []models.Candidate{{PlaceID: "z", Description: "Zion National Park"}}
	cache := newMapCache()
	gw := NewCached(fake, cache)
	ctx := context.Background()

	first, err := gw.Autocomplete(ctx, "zion")
	require.NoError(t, err)
	second, err := gw.Autocomplete(ctx, " Zion ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, fake.AutocompleteCalls, 1)
	assert.Equal(t, CacheTTL, cache.ttls["gmaps:autocomplete:zion"])
}

func TestCachedPlaceDetailSkipsErrors(t *testing.T) {
	fake := gmapstest.New()
	fake.Errors["bad"] = ErrNoGeometry
	fake.Details["ok"] = &models.PlaceDetail{PlaceID: "ok", Name: "Sedona", Lat: 34.87, Lng: -111.76}
	gw := NewCached(fake, newMapCache())
	ctx := context.Background()

	_, err := gw.PlaceDetail(ctx, "bad")
	assert.ErrorIs(t, err, ErrNoGeometry)
	_, err = gw.PlaceDetail(ctx, "bad")
	assert.ErrorIs(t, err, ErrNoGeometry)
	assert.Len(t, fake.DetailCalls, 2)

	d, err := gw.PlaceDetail(ctx, "ok")
	require.NoError(t, err)
	again, err := gw.PlaceDetail(ctx, "ok")
	require.NoError(t, err)
	assert.Equal(t, d, again)
	assert.Len(t, fake.DetailCalls, 3)
}

func TestCachedFallsThroughWhenCacheFails(t *testing.T) {
	fake := gmapstest.New()
	fake.Candidates["page"] = []models.Candidate{{PlaceID: "p"}}
	cache := newMapCache()
	cache.fail = true
	gw := NewCached(fake, cache)

	got, err := gw.Autocomplete(context.Background(), "page")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCachedDirectionsPassThrough(t *testing.T) {
	fake := gmapstest.New()
	gw := NewCached(fake, newMapCache())
	_, _ = gw.Directions(context.Background(), "a", "b")
	_, _ = gw.Directions(context.Background(), "a", "b")
	assert.Equal(t, 2, fake.DirectionsCount())
}
