package maps

import (
	"fmt"
	"log/slog"

	gm "googlemaps.github.io/maps"

	"roadtrip/gmaps"
	"roadtrip/models"
)

// Palette colours stops and the legs leaving them, by stop index.
var Palette = []string{
	"#FF6B6B", "#FF9F43", "#F7B731", "#26de81", "#45aaf2",
	"#a55eea", "#fd9644", "#2bcbba", "#fc5c65", "#4b7bec",
}

const (
	PreviewColor  = "#00b894"
	StraightColor = "#74b9ff"
	RouteColor    = "#0652DD"

	PreviewZoom = 14
	DefaultZoom = 6
)

// DefaultCenter is used when there is nothing to show (Las Vegas).
var DefaultCenter = gm.LatLng{Lat: 36.1699, Lng: -115.1398}

type Marker struct {
	Number   int     `json:"number,omitempty"`
	Label    string  `json:"label"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address,omitempty"`
	PhotoURL string  `json:"photo_url,omitempty"`
	Color    string  `json:"color"`
	Preview  bool    `json:"preview,omitempty"`
}

type Polyline struct {
	Path    []gm.LatLng `json:"path"`
	Color   string      `json:"color"`
	Weight  int         `json:"weight"`
	Opacity float64     `json:"opacity"`
	Dashed  bool        `json:"dashed,omitempty"`
	Tooltip string      `json:"tooltip,omitempty"`
}

// Label is text pinned at a point, used for leg durations.
type Label struct {
	Position gm.LatLng `json:"position"`
	Text     string    `json:"text"`
	Color    string    `json:"color"`
}

type SummaryRow struct {
	Leg      string `json:"leg"`
	From     string `json:"from"`
	To       string `json:"to"`
	Duration string `json:"duration"`
	Distance string `json:"distance"`
}

type View struct {
	Center        gm.LatLng    `json:"center"`
	Zoom          int          `json:"zoom"`
	Markers       []Marker     `json:"markers"`
	Polylines     []Polyline   `json:"polylines"`
	Labels        []Label      `json:"labels"`
	Summary       []SummaryRow `json:"summary"`
	DirectionsURL string       `json:"directions_url,omitempty"`
}

type ViewInput struct {
	Places   []models.Place
	Preview  *models.PlaceDetail
	Route    *models.RouteResult
	Segments []*models.Segment
	// ShowSegments draws Segments; when false they are ignored.
	ShowSegments bool
}

// BuildView lays out everything the map draws for the current state.
func BuildView(in ViewInput) View {
	v := View{
		Markers:       []Marker{},
		Polylines:     []Polyline{},
		Labels:        []Label{},
		Summary:       []SummaryRow{},
		DirectionsURL: gmaps.DirectionsURL(in.Places),
	}
	v.Center, v.Zoom = center(in)

	for i, p := range in.Places {
		v.Markers = append(v.Markers, Marker{
			Number:   i + 1,
			Label:    fmt.Sprintf("%d. %s", i+1, Truncate(p.Name, 10)),
			Name:     p.Name,
			Lat:      p.Lat,
			Lng:      p.Lng,
			Address:  p.Address,
			PhotoURL: p.PhotoURL,
			Color:    colorAt(i),
		})
	}
	if p := in.Preview; p != nil {
		v.Markers = append(v.Markers, Marker{
			Label:    Truncate(p.Name, 15),
			Name:     p.Name,
			Lat:      p.Lat,
			Lng:      p.Lng,
			Address:  p.Address,
			PhotoURL: p.PhotoURL,
			Color:    PreviewColor,
			Preview:  true,
		})
	}

	// an all-null list still counts as shown, so no straight line is drawn
	segmentsShown := in.ShowSegments && len(in.Segments) > 0
	if segmentsShown {
		for i, seg := range in.Segments {
			if seg == nil || i+1 >= len(in.Places) {
				continue
			}
			a, b := in.Places[i], in.Places[i+1]
			path := []gm.LatLng{{Lat: a.Lat, Lng: a.Lng}}
			path = append(path, decode(seg.Polyline)...)
			path = append(path, gm.LatLng{Lat: b.Lat, Lng: b.Lng})

			v.Polylines = append(v.Polylines, Polyline{
				Path:    path,
				Color:   colorAt(i),
				Weight:  5,
				Opacity: 0.85,
				Tooltip: fmt.Sprintf("🚗 %s (%s)", seg.DurationText, seg.DistanceText),
			})
			v.Labels = append(v.Labels, Label{
				Position: gm.LatLng{Lat: seg.MidLat, Lng: seg.MidLng},
				Text:     "🚗 " + seg.DurationText,
				Color:    colorAt(i),
			})
			v.Summary = append(v.Summary, SummaryRow{
				Leg:      fmt.Sprintf("%d → %d", i+1, i+2),
				From:     Truncate(seg.From, 20),
				To:       Truncate(seg.To, 20),
				Duration: seg.DurationText,
				Distance: seg.DistanceText,
			})
		}
	}

	if rt := in.Route; rt != nil {
		path := []gm.LatLng{{Lat: rt.Start.Lat, Lng: rt.Start.Lng}}
		path = append(path, decode(rt.Polyline)...)
		path = append(path, gm.LatLng{Lat: rt.End.Lat, Lng: rt.End.Lng})
		v.Polylines = append(v.Polylines, Polyline{
			Path:    path,
			Color:   RouteColor,
			Weight:  5,
			Opacity: 0.9,
			Tooltip: fmt.Sprintf("%s → %s: %s (%s)", rt.Start.Name, rt.End.Name, rt.DurationText, rt.DistanceText),
		})
	} else if !segmentsShown && len(in.Places) >= 2 {
		path := make([]gm.LatLng, len(in.Places))
		for i, p := range in.Places {
			path[i] = gm.LatLng{Lat: p.Lat, Lng: p.Lng}
		}
		v.Polylines = append(v.Polylines, Polyline{
			Path:    path,
			Color:   StraightColor,
			Weight:  3,
			Opacity: 0.6,
			Dashed:  true,
		})
	}
	return v
}

func center(in ViewInput) (gm.LatLng, int) {
	switch {
	case in.Preview != nil:
		return gm.LatLng{Lat: in.Preview.Lat, Lng: in.Preview.Lng}, PreviewZoom
	case in.Route != nil:
		return gm.LatLng{
			Lat: (in.Route.Start.Lat + in.Route.End.Lat) / 2,
			Lng: (in.Route.Start.Lng + in.Route.End.Lng) / 2,
		}, DefaultZoom
	case len(in.Places) > 0:
		var c gm.LatLng
		for _, p := range in.Places {
			c.Lat += p.Lat
			c.Lng += p.Lng
		}
		n := float64(len(in.Places))
		c.Lat /= n
		c.Lng /= n
		return c, DefaultZoom
	}
	return DefaultCenter, DefaultZoom
}

func colorAt(i int) string {
	return Palette[i%len(Palette)]
}

func decode(polyline string) []gm.LatLng {
	if polyline == "" {
		return nil
	}
	path, err := gm.DecodePolyline(polyline)
	if err != nil {
		slog.Warn("Bad route polyline", "error", err)
		return nil
	}
	return path
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
