package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roadtrip/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		row  models.ItineraryRow
		ok   bool
	}{
		{"complete", models.ItineraryRow{Date: "2025-06-01", StartTime: "08:30", EndTime: "12:00", Activity: "Grand Canyon"}, true},
		{"no end time", models.ItineraryRow{Date: "2025-06-01", StartTime: "08:30", Activity: "Drive"}, true},
		{"blank activity", models.ItineraryRow{Date: "2025-06-01", StartTime: "08:30", Activity: "  "}, false},
		{"bad date", models.ItineraryRow{Date: "06/01/2025", StartTime: "08:30", Activity: "Drive"}, false},
		{"bad start", models.ItineraryRow{Date: "2025-06-01", StartTime: "8am", Activity: "Drive"}, false},
		{"ends before start", models.ItineraryRow{Date: "2025-06-01", StartTime: "12:00", EndTime: "08:30", Activity: "Drive"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.row
			msg := Validate(&row)
			assert.Equal(t, tt.ok, msg == "", msg)
		})
	}
}
