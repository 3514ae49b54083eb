package gmaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"

	"roadtrip/metrics"
	"roadtrip/models"
)

var fullDetailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
	maps.PlaceDetailsFieldMaskOpeningHours,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskInternationalPhoneNumber,
	maps.PlaceDetailsFieldMaskPhotos,
}

var reducedDetailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskFormattedAddress,
}

type Options struct {
	APIKey   string
	Language string
	Country  string
	QPS      float64
	Timeout  time.Duration
	// BaseURL overrides the service host; tests point it at a local server.
	BaseURL string
}

// Client implements Gateway on the Google Maps web services.
type Client struct {
	api     *maps.Client
	limiter *rate.Limiter
	opts    Options
}

func NewClient(opts Options) (*Client, error) {
	clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	api, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	if opts.QPS <= 0 {
		opts.QPS = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(opts.QPS), int(opts.QPS)+1),
		opts:    opts,
	}, nil
}

func (c *Client) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	return ctx, cancel, nil
}

func (c *Client) Autocomplete(ctx context.Context, query string) (out []models.Candidate, err error) {
	defer func() { metrics.MapsCalls.WithLabelValues("autocomplete", metrics.OutcomeOf(err)).Inc() }()

	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	req := &maps.PlaceAutocompleteRequest{
		Input:    query,
		Language: c.opts.Language,
	}
	if c.opts.Country != "" {
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {c.opts.Country}}
	}
	resp, err := c.api.PlaceAutocomplete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", query, err)
	}

	out = make([]models.Candidate, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, models.Candidate{PlaceID: p.PlaceID, Description: p.Description, Types: p.Types})
	}
	return RankCandidates(out), nil
}

// PlaceDetail asks for the full field set and falls back once to the reduced
// set when the service refuses the fields.
func (c *Client) PlaceDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error) {
	d, err := c.placeDetail(ctx, placeID, fullDetailFields)
	if errors.Is(err, ErrFieldsNotPermitted) {
		slog.Warn("Place detail fields refused; retrying with reduced set", "place_id", placeID, "error", err)
		d, err = c.placeDetail(ctx, placeID, reducedDetailFields)
	}
	return d, err
}

func (c *Client) placeDetail(ctx context.Context, placeID string, fields []maps.PlaceDetailsFieldMask) (d *models.PlaceDetail, err error) {
	defer func() { metrics.MapsCalls.WithLabelValues("place_detail", metrics.OutcomeOf(err)).Inc() }()

	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	res, err := c.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: c.opts.Language,
		Fields:   fields,
	})
	if err != nil {
		return nil, fmt.Errorf("place detail %s: %w", placeID, classify(err))
	}

	loc := res.Geometry.Location
	if loc.Lat == 0 || loc.Lng == 0 {
		return nil, fmt.Errorf("place detail %s: %w", placeID, ErrNoGeometry)
	}

	d = &models.PlaceDetail{
		PlaceID:          placeID,
		Name:             res.Name,
		Lat:              loc.Lat,
		Lng:              loc.Lng,
		Address:          res.FormattedAddress,
		Rating:           float64(res.Rating),
		UserRatingsTotal: res.UserRatingsTotal,
		Website:          res.Website,
		Phone:            res.InternationalPhoneNumber,
	}
	if res.OpeningHours != nil {
		d.OpeningHours = res.OpeningHours.WeekdayText
	}
	if len(res.Photos) > 0 && res.Photos[0].PhotoReference != "" {
		d.PhotoURL = PhotoURL(c.opts.APIKey, res.Photos[0].PhotoReference)
	}
	return d, nil
}

func (c *Client) Directions(ctx context.Context, origin, destination string) (out []models.Route, err error) {
	defer func() { metrics.MapsCalls.WithLabelValues("directions", metrics.OutcomeOf(err)).Inc() }()

	ctx, cancel, err := c.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	routes, _, err := c.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    c.opts.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("directions %s -> %s: %w", origin, destination, err)
	}

	for _, r := range routes {
		if len(r.Legs) == 0 || r.Legs[0] == nil {
			continue
		}
		leg := r.Legs[0]
		out = append(out, models.Route{
			DurationText: FormatDuration(leg.Duration, c.opts.Language),
			DistanceText: leg.HumanReadable,
			Polyline:     r.OverviewPolyline.Points,
		})
	}
	return out, nil
}

// classify maps service status errors onto package sentinels. The client
// library reports them as "maps: STATUS - message".
func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "INVALID_REQUEST"):
		return fmt.Errorf("%w: %v", ErrFieldsNotPermitted, err)
	case strings.Contains(msg, "NOT_FOUND"):
		return fmt.Errorf("%w: %v", ErrNoGeometry, err)
	}
	return err
}
