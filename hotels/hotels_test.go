package hotels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roadtrip/models"
)

func TestNormalize(t *testing.T) {
	h := models.Hotel{Name: "  Bellagio ", Checkin: "2025-06-01", Checkout: "2025-06-03", Nights: 99}
	assert.Empty(t, Normalize(&h))
	assert.Equal(t, "Bellagio", h.Name)
	assert.Equal(t, 2, h.Nights)

	assert.NotEmpty(t, Normalize(&models.Hotel{Checkin: "2025-06-01", Checkout: "2025-06-03"}))
	assert.NotEmpty(t, Normalize(&models.Hotel{Name: "Same day", Checkin: "2025-06-01", Checkout: "2025-06-01"}))
}
