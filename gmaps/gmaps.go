// Package gmaps is the places and directions gateway.
package gmaps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"roadtrip/models"
)

var (
	// ErrFieldsNotPermitted means the service rejected the requested detail
	// fields for this place.
	ErrFieldsNotPermitted = errors.New("place detail fields not permitted")
	// ErrNoGeometry means the place has no usable coordinates.
	ErrNoGeometry = errors.New("place has no location")
	// ErrNoResults means the service answered but found nothing.
	ErrNoResults = errors.New("no results")
)

// Gateway is everything the planner asks of the maps platform.
type Gateway interface {
	Autocomplete(ctx context.Context, query string) ([]models.Candidate, error)
	PlaceDetail(ctx context.Context, placeID string) (*models.PlaceDetail, error)
	Directions(ctx context.Context, origin, destination string) ([]models.Route, error)
}

const photoEndpoint = "https://maps.googleapis.com/maps/api/place/photo"

// PhotoMaxWidth is the width requested for place photos.
const PhotoMaxWidth = 400

// PhotoURL builds the Places Photo URL for a photo reference.
func PhotoURL(apiKey, ref string) string {
	q := url.Values{}
	q.Set("maxwidth", fmt.Sprint(PhotoMaxWidth))
	q.Set("photo_reference", ref)
	q.Set("key", apiKey)
	return photoEndpoint + "?" + q.Encode()
}

// RankCandidates puts establishments first and keeps the service order
// otherwise.
func RankCandidates(in []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(in))
	var rest []models.Candidate
	for _, c := range in {
		if isEstablishment(c) {
			out = append(out, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(out, rest...)
}

func isEstablishment(c models.Candidate) bool {
	for _, t := range c.Types {
		if t == "establishment" {
			return true
		}
	}
	return false
}

// LatLng formats a coordinate pair the way the directions service accepts it.
func LatLng(lat, lng float64) string {
	return fmt.Sprintf("%g,%g", lat, lng)
}

// DirectionsURL is a Google Maps share link that drives through every stop in
// order. It returns "" for fewer than two stops.
func DirectionsURL(stops []models.Place) string {
	if len(stops) < 2 {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("travelmode", "driving")
	q.Set("origin", LatLng(stops[0].Lat, stops[0].Lng))
	q.Set("destination", LatLng(stops[len(stops)-1].Lat, stops[len(stops)-1].Lng))
	if mid := stops[1 : len(stops)-1]; len(mid) > 0 {
		points := make([]string, len(mid))
		for i, p := range mid {
			points[i] = LatLng(p.Lat, p.Lng)
		}
		q.Set("waypoints", strings.Join(points, "|"))
	}
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// FormatDuration renders a travel time the way the directions service words
// it for the given language.
func FormatDuration(d time.Duration, language string) string {
	mins := int((d + 30*time.Second) / time.Minute)
	days, hours, mins := mins/(24*60), (mins/60)%24, mins%60

	if strings.HasPrefix(language, "ko") {
		var parts []string
		if days > 0 {
			parts = append(parts, fmt.Sprintf("%d일", days))
		}
		if hours > 0 {
			parts = append(parts, fmt.Sprintf("%d시간", hours))
		}
		if mins > 0 || len(parts) == 0 {
			parts = append(parts, fmt.Sprintf("%d분", mins))
		}
		return strings.Join(parts, " ")
	}

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day", "days"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour", "hours"))
	}
	if mins > 0 || len(parts) == 0 {
		parts = append(parts, plural(mins, "min", "mins"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
