package gmaps

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"roadtrip/metrics"
	"roadtrip/models"
)

// Cache is the key-value store Cached keeps results in.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

const CacheTTL = 24 * time.Hour

// Cached serves autocomplete and place detail from a cache when it can.
// Directions pass straight through; segments have their own cache.
type Cached struct {
	next  Gateway
	cache Cache
	ttl   time.Duration
}

func NewCached(next Gateway, cache Cache) *Cached {
	return &Cached{next: next, cache: cache, ttl: CacheTTL}
}

func (c *Cached) Autocomplete(ctx context.Context, query string) ([]models.Candidate, error) {
	key := "gmaps:autocomplete:" + strings.ToLower(strings.TrimSpace(query))
	var out []models.Candidate
	if c.lookup(ctx, "autocomplete", key, &out) {
		return out, nil
	}
	out, err := c.next.Autocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

func (c *Cached) PlaceDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error) {
	key := "gmaps:place:" + placeID
	var out models.PlaceDetail
	if c.lookup(ctx, "place_detail", key, &out) {
		return &out, nil
	}
	d, err := c.next.PlaceDetail(ctx, placeID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, d)
	return d, nil
}

func (c *Cached) Directions(ctx context.Context, origin, destination string) ([]models.Route, error) {
	return c.next.Directions(ctx, origin, destination)
}

func (c *Cached) lookup(ctx context.Context, op, key string, out any) bool {
	ok, err := c.cache.GetJSON(ctx, key, out)
	if err != nil {
		slog.Warn("Maps cache read failed", "key", key, "error", err)
		return false
	}
	if ok {
		metrics.MapsCacheLookups.WithLabelValues(op, metrics.Hit).Inc()
	} else {
		metrics.MapsCacheLookups.WithLabelValues(op, metrics.Miss).Inc()
	}
	return ok
}

func (c *Cached) store(ctx context.Context, key string, v any) {
	if err := c.cache.SetJSON(ctx, key, v, c.ttl); err != nil {
		slog.Warn("Maps cache write failed", "key", key, "error", err)
	}
}
