package places

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roadtrip/models"
)

func names(ps []models.Place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestMove(t *testing.T) {
	stops := []models.Place{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}

	assert.Equal(t, []string{"B", "C", "A", "D"}, names(Move(stops, 0, 2)))
	assert.Equal(t, []string{"D", "A", "B", "C"}, names(Move(stops, 3, 0)))
	assert.Equal(t, []string{"A", "C", "B", "D"}, names(Move(stops, 2, 1)))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(stops), "input untouched")
}
