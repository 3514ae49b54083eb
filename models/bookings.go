package models

import "time"

// Flight types
const (
	FlightOutbound = "outbound"
	FlightReturn   = "return"
	FlightDomestic = "domestic"
)

type Flight struct {
	Type         string `json:"type" bson:"type"`
	Airline      string `json:"airline" bson:"airline"`
	FlightNo     string `json:"flight_no" bson:"flight_no"`
	DepAirport   string `json:"dep_airport" bson:"dep_airport"`
	DepDatetime  string `json:"dep_datetime" bson:"dep_datetime"`
	ArrAirport   string `json:"arr_airport" bson:"arr_airport"`
	ArrDatetime  string `json:"arr_datetime" bson:"arr_datetime"`
	Seat         string `json:"seat" bson:"seat"`
	Confirmation string `json:"confirmation" bson:"confirmation"`
	Memo         string `json:"memo" bson:"memo"`
}

type Hotel struct {
	Name         string `json:"name" bson:"name"`
	Address      string `json:"address" bson:"address"`
	Checkin      string `json:"checkin" bson:"checkin"`
	Checkout     string `json:"checkout" bson:"checkout"`
	Nights       int    `json:"nights" bson:"nights"`
	Confirmation string `json:"confirmation" bson:"confirmation"`
	Memo         string `json:"memo" bson:"memo"`
}

type Restaurant struct {
	Name    string `json:"name" bson:"name"`
	Cuisine string `json:"cuisine" bson:"cuisine"`
	City    string `json:"city" bson:"city"`
	Memo    string `json:"memo" bson:"memo"`
	Visited bool   `json:"visited" bson:"visited"`
}

// Nights counts the nights between two YYYY-MM-DD dates.
func Nights(checkin, checkout string) (int, error) {
	in, err := time.Parse(time.DateOnly, checkin)
	if err != nil {
		return 0, err
	}
	out, err := time.Parse(time.DateOnly, checkout)
	if err != nil {
		return 0, err
	}
	return int(out.Sub(in).Hours() / 24), nil
}
