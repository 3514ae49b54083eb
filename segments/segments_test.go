package segments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/gmaps"
	"roadtrip/gmaps/gmapstest"
	"roadtrip/models"
)

var (
	grandCanyon = models.Place{Name: "Grand Canyon", Lat: 36.0544, Lng: -112.1401, Address: "Grand Canyon Village, AZ"}
	lasVegas    = models.Place{Name: "Las Vegas", Lat: 36.1699, Lng: -115.1398, Address: "Las Vegas, NV"}
	page        = models.Place{Name: "Page", Lat: 36.9147, Lng: -111.4558, Address: "Page, AZ"}
)

func coordKey(a, b models.Place) string {
	return gmapstest.RouteKey(gmaps.LatLng(a.Lat, a.Lng), gmaps.LatLng(b.Lat, b.Lng))
}

func fakeWithAllRoutes() *gmapstest.Fake {
	f := gmapstest.New()
	for _, pair := range [][2]models.Place{{grandCanyon, page}, {page, lasVegas}, {grandCanyon, lasVegas}, {lasVegas, grandCanyon}, {page, grandCanyon}} {
		f.Routes[coordKey(pair[0], pair[1])] = []models.Route{{DurationText: "x", DistanceText: "y", Polyline: "p"}}
	}
	return f
}

func TestFewerThanTwoStops(t *testing.T) {
	var c Cache
	f := gmapstest.New()

	assert.Empty(t, c.Segments(context.Background(), nil, f))
	assert.Empty(t, c.Segments(context.Background(), []models.Place{grandCanyon}, f))
	assert.Zero(t, f.DirectionsCount())
	_, ok := c.Cached()
	assert.False(t, ok)
}

func TestCacheHitMakesNoLookups(t *testing.T) {
	var c Cache
	f := fakeWithAllRoutes()
	stops := []models.Place{grandCanyon, page, lasVegas}
	ctx := context.Background()

	first := c.Segments(ctx, stops, f)
	require.Equal(t, 2, f.DirectionsCount())

	second := c.Segments(ctx, stops, f)
	assert.Equal(t, 2, f.DirectionsCount())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached result differs (-first +second):\n%s", diff)
	}
}

func TestReorderRecomputes(t *testing.T) {
	var c Cache
	f := fakeWithAllRoutes()
	ctx := context.Background()

	c.Segments(ctx, []models.Place{grandCanyon, page, lasVegas}, f)
	f.Reset()

	got := c.Segments(ctx, []models.Place{page, grandCanyon, lasVegas}, f)
	assert.Equal(t, 2, f.DirectionsCount())
	require.Len(t, got, 2)
	assert.Equal(t, "Page", got[0].From)
	assert.Equal(t, "Grand Canyon", got[0].To)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	var c Cache
	f := fakeWithAllRoutes()
	stops := []models.Place{grandCanyon, lasVegas}
	ctx := context.Background()

	c.Segments(ctx, stops, f)
	c.Invalidate()
	_, ok := c.Cached()
	assert.False(t, ok)

	c.Segments(ctx, stops, f)
	assert.Equal(t, 2, f.DirectionsCount())
}

func TestFingerprintComparesNamesNotConcatenation(t *testing.T) {
	var c Cache
	f := gmapstest.New()
	ctx := context.Background()

	a := []models.Place{{Name: "a_b"}, {Name: "c"}}
	b := []models.Place{{Name: "a"}, {Name: "b_c"}}
	c.Segments(ctx, a, f)
	calls := f.DirectionsCount()
	c.Segments(ctx, b, f)
	assert.Greater(t, f.DirectionsCount(), calls)
}

func TestPartialFailure(t *testing.T) {
	var c Cache
	f := fakeWithAllRoutes()
	f.Errors[coordKey(grandCanyon, page)] = errors.New("network down")
	stops := []models.Place{grandCanyon, page, lasVegas}

	got := c.Segments(context.Background(), stops, f)

	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	require.NotNil(t, got[1])
	assert.Equal(t, "Page", got[1].From)
}

func TestAddressFallback(t *testing.T) {
	var c Cache
	f := gmapstest.New()
	f.Routes[gmapstest.RouteKey(grandCanyon.Address, lasVegas.Address)] = []models.Route{
		{DurationText: "4시간 28분", DistanceText: "442km", Polyline: "abc"},
	}

	got := c.Segments(context.Background(), []models.Place{grandCanyon, lasVegas}, f)

	require.Len(t, got, 1)
	require.NotNil(t, got[0])
	assert.Equal(t, "4시간 28분", got[0].DurationText)
	assert.Equal(t, []string{coordKey(grandCanyon, lasVegas), gmapstest.RouteKey(grandCanyon.Address, lasVegas.Address)}, f.DirectionsCalls)
}

func TestNoRouteEitherWay(t *testing.T) {
	var c Cache
	f := gmapstest.New()

	got := c.Segments(context.Background(), []models.Place{grandCanyon, lasVegas}, f)

	require.Len(t, got, 1)
	assert.Nil(t, got[0])
	assert.Equal(t, 2, f.DirectionsCount())
}

func TestGrandCanyonToLasVegas(t *testing.T) {
	var c Cache
	f := gmapstest.New()
	f.Routes[coordKey(grandCanyon, lasVegas)] = []models.Route{
		{DurationText: "4시간 28분", DistanceText: "442km", Polyline: "_p~iF~ps|U"},
	}

	got := c.Segments(context.Background(), []models.Place{grandCanyon, lasVegas}, f)

	want := []*models.Segment{{
		From:         "Grand Canyon",
		To:           "Las Vegas",
		DurationText: "4시간 28분",
		DistanceText: "442km",
		Polyline:     "_p~iF~ps|U",
		MidLat:       (36.0544 + 36.1699) / 2,
		MidLng:       (-112.1401 + -115.1398) / 2,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnedSliceIsACopy(t *testing.T) {
	var c Cache
	f := fakeWithAllRoutes()
	stops := []models.Place{grandCanyon, lasVegas}

	got := c.Segments(context.Background(), stops, f)
	got[0] = nil

	again := c.Segments(context.Background(), stops, f)
	require.NotNil(t, again[0])
	again[0].DurationText = "edited"

	cached, ok := c.Cached()
	require.True(t, ok)
	assert.Equal(t, "x", cached[0].DurationText)
	cached[0].From = "edited"

	assert.Equal(t, "Grand Canyon", c.Segments(context.Background(), stops, f)[0].From)
}

// ctxRouter fails every lookup once its context is done.
type ctxRouter struct {
	*gmapstest.Fake
	cancel context.CancelFunc
}

func (r *ctxRouter) Directions(ctx context.Context, origin, destination string) ([]models.Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	routes, err := r.Fake.Directions(ctx, origin, destination)
	if r.cancel != nil {
		r.cancel()
	}
	return routes, err
}

func TestCancelledLookupsAreNotCached(t *testing.T) {
	tests := []struct {
		name      string
		ctx       func() (context.Context, context.CancelFunc)
		cancelMid bool
		lookups   int
	}{
		{
			name: "cancelled before start",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			lookups: 0,
		},
		{
			name:      "cancelled after first leg",
			ctx:       func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			cancelMid: true,
			lookups:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cache
			stops := []models.Place{grandCanyon, page, lasVegas}
			ctx, cancel := tt.ctx()
			defer cancel()
			r := &ctxRouter{Fake: fakeWithAllRoutes()}
			if tt.cancelMid {
				r.cancel = cancel
			}

			got := c.Segments(ctx, stops, r)
			require.Len(t, got, 2)
			assert.Nil(t, got[1])
			assert.Equal(t, tt.lookups, r.DirectionsCount())
			_, ok := c.Cached()
			assert.False(t, ok)

			r.cancel = nil
			r.Reset()
			got = c.Segments(context.Background(), stops, r)
			assert.Equal(t, 2, r.DirectionsCount())
			require.Len(t, got, 2)
			assert.NotNil(t, got[0])
			assert.NotNil(t, got[1])
			_, ok = c.Cached()
			assert.True(t, ok)
		})
	}
}
