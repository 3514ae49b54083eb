// Package segments computes and memoises the driving legs between consecutive
// stops. The cache holds exactly one stop list at a time.
package segments

import (
	"context"
	"log/slog"
	"slices"

	"roadtrip/gmaps"
	"roadtrip/metrics"
	"roadtrip/models"
)

// Router is the part of gmaps.Gateway the cache needs.
type Router interface {
	Directions(ctx context.Context, origin, destination string) ([]models.Route, error)
}

// Fingerprint identifies a stop list by its ordered place names.
func Fingerprint(stops []models.Place) []string {
	names := make([]string, len(stops))
	for i, s := range stops {
		names[i] = s.Name
	}
	return names
}

// Cache is not safe for concurrent use; it lives inside a session, which
// serialises access.
type Cache struct {
	key   []string
	times []*models.Segment
	valid bool
}

// Segments returns one entry per consecutive pair of stops, nil where no route
// could be found.
func (c *Cache) Segments(ctx context.Context, stops []models.Place, router Router) []*models.Segment {
	if len(stops) < 2 {
		return []*models.Segment{}
	}

	key := Fingerprint(stops)
	if c.valid && slices.Equal(c.key, key) {
		metrics.SegmentCache.WithLabelValues(metrics.Hit).Inc()
		return clone(c.times)
	}
	metrics.SegmentCache.WithLabelValues(metrics.Miss).Inc()

	times := make([]*models.Segment, 0, len(stops)-1)
	for i := 0; i < len(stops)-1; i++ {
		if ctx.Err() != nil {
			break
		}
		a, b := stops[i], stops[i+1]
		route, err := Lookup(ctx, router, a, b)
		if err != nil {
			slog.Warn("Segment lookup failed", "from", a.Name, "to", b.Name, "error", err)
			times = append(times, nil)
			continue
		}
		if route == nil {
			times = append(times, nil)
			continue
		}
		times = append(times, &models.Segment{
			From:         a.Name,
			To:           b.Name,
			DurationText: route.DurationText,
			DistanceText: route.DistanceText,
			Polyline:     route.Polyline,
			MidLat:       (a.Lat + b.Lat) / 2,
			MidLng:       (a.Lng + b.Lng) / 2,
		})
	}

	// a cancelled request leaves the slot untouched so the next one retries
	if err := ctx.Err(); err != nil {
		slog.Warn("Segment lookups interrupted", "stops", len(stops), "error", err)
		for len(times) < len(stops)-1 {
			times = append(times, nil)
		}
		return times
	}

	c.key, c.times, c.valid = key, times, true
	return clone(times)
}

// Cached reports the stored entries and whether there are any.
func (c *Cache) Cached() ([]*models.Segment, bool) {
	if !c.valid {
		return nil, false
	}
	return clone(c.times), true
}

// clone copies the entries too, so callers cannot edit the cached segments.
func clone(times []*models.Segment) []*models.Segment {
	out := make([]*models.Segment, len(times))
	for i, seg := range times {
		if seg != nil {
			cp := *seg
			out[i] = &cp
		}
	}
	return out
}

// Invalidate empties the slot.
func (c *Cache) Invalidate() {
	c.key, c.times, c.valid = nil, nil, false
}

// Lookup finds the first driving route from a to b, trying coordinates first
// and the addresses once if that finds nothing. It returns nil, nil when
// neither finds a route.
func Lookup(ctx context.Context, router Router, a, b models.Place) (*models.Route, error) {
	routes, err := router.Directions(ctx, gmaps.LatLng(a.Lat, a.Lng), gmaps.LatLng(b.Lat, b.Lng))
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		routes, err = router.Directions(ctx, a.Address, b.Address)
		if err != nil {
			return nil, err
		}
	}
	if len(routes) == 0 {
		return nil, nil
	}
	r := routes[0]
	return &r, nil
}
