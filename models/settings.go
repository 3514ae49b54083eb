package models

type Settings struct {
	DepartureDate string `json:"departure_date" bson:"departure_date"`
}
