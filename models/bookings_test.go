package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNights(t *testing.T) {
	tests := []struct {
		in, out string
		want    int
	}{
		{"2025-06-01", "2025-06-02", 1},
		{"2025-06-28", "2025-07-03", 5},
		{"2025-03-08", "2025-03-10", 2},
		{"2025-06-01", "2025-06-01", 0},
	}
	for _, tt := range tests {
		got, err := Nights(tt.in, tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s → %s", tt.in, tt.out)
	}

	_, err := Nights("June 1", "2025-06-02")
	assert.Error(t, err)
}
