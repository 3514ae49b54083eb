package models

// Place is a stop on the trip. Names are unique within a trip and act as the
// identifier everywhere else.
type Place struct {
	Name     string  `json:"name" bson:"name"`
	Lat      float64 `json:"lat" bson:"lat"`
	Lng      float64 `json:"lng" bson:"lng"`
	Address  string  `json:"address" bson:"address"`
	PhotoURL string  `json:"photo_url" bson:"photo_url"`
}

// Candidate is one autocomplete suggestion.
type Candidate struct {
	PlaceID     string   `json:"place_id"`
	Description string   `json:"description"`
	Types       []string `json:"types,omitempty"`
}

// PlaceDetail is the preview shown before a place is added.
type PlaceDetail struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Address          string   `json:"address"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
	Website          string   `json:"website,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
}

// AsPlace drops the preview-only fields.
func (d PlaceDetail) AsPlace() Place {
	return Place{
		Name:     d.Name,
		Lat:      d.Lat,
		Lng:      d.Lng,
		Address:  d.Address,
		PhotoURL: d.PhotoURL,
	}
}
