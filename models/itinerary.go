package models

// ItineraryRow is one scheduled activity. Dates are YYYY-MM-DD and times HH:MM,
// kept as text so rows round-trip through the document store untouched.
type ItineraryRow struct {
	Date      string `json:"date" bson:"date"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
	Activity  string `json:"activity" bson:"activity"`
	Memo      string `json:"memo" bson:"memo"`
}
