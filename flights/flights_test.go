package flights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roadtrip/models"
)

func TestNormalizeDefaultsToOutbound(t *testing.T) {
	f := models.Flight{Airline: "Korean Air", DepAirport: " icn ", ArrAirport: "las"}
	assert.Empty(t, Normalize(&f))
	assert.Equal(t, models.FlightOutbound, f.Type)
	assert.Equal(t, "ICN", f.DepAirport)
	assert.Equal(t, "LAS", f.ArrAirport)
}

func TestNormalizeRejects(t *testing.T) {
	assert.NotEmpty(t, Normalize(&models.Flight{Type: "charter", FlightNo: "KE005"}))
	assert.NotEmpty(t, Normalize(&models.Flight{Type: models.FlightReturn}))
	assert.Empty(t, Normalize(&models.Flight{Type: models.FlightDomestic, FlightNo: "WN1234"}))
}
