package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip("tzdata not available")
	}
	today := time.Date(2025, 3, 1, 23, 30, 0, 0, la)

	days, ok := DaysUntil("2025-03-15", today)
	assert.True(t, ok)
	assert.Equal(t, 14, days)

	days, ok = DaysUntil("2025-03-01", today)
	assert.True(t, ok)
	assert.Equal(t, 0, days)

	days, ok = DaysUntil("2025-02-27", today)
	assert.True(t, ok)
	assert.Equal(t, -2, days)

	_, ok = DaysUntil("", today)
	assert.False(t, ok)
}
