package models

// Route is the part of a directions result the planner keeps.
type Route struct {
	DurationText string `json:"duration"`
	DistanceText string `json:"distance"`
	Polyline     string `json:"polyline"`
}

// Segment is the driving leg between two consecutive stops.
type Segment struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	DurationText string  `json:"duration"`
	DistanceText string  `json:"distance"`
	Polyline     string  `json:"polyline"`
	MidLat       float64 `json:"mid_lat"`
	MidLng       float64 `json:"mid_lng"`
}

// RouteResult is the outcome of the two-point route calculator.
type RouteResult struct {
	Start        Place  `json:"start"`
	End          Place  `json:"end"`
	DurationText string `json:"duration"`
	DistanceText string `json:"distance"`
	Polyline     string `json:"polyline"`
}
