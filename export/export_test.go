package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip/models"
)

func TestWriteCSVSortsByDateThenStart(t *testing.T) {
	rows := []models.ItineraryRow{
		{Date: "2025-06-02", StartTime: "09:00", Activity: "Zion"},
		{Date: "2025-06-01", StartTime: "14:00", Activity: "Hoover Dam", Memo: "bring water"},
		{Date: "2025-06-01", StartTime: "08:30", EndTime: "12:00", Activity: "Grand Canyon, South Rim"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := strings.Join([]string{
		"date,start_time,end_time,activity,memo",
		`2025-06-01,08:30,12:00,"Grand Canyon, South Rim",`,
		"2025-06-01,14:00,,Hoover Dam,bring water",
		"2025-06-02,09:00,,Zion,",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Zion", rows[0].Activity, "input must not be reordered")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "date,start_time,end_time,activity,memo\n", buf.String())
}

func TestThumbnailIsSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 200))
	got := Thumbnail(src, ThumbSize)
	assert.Equal(t, ThumbSize, got.Bounds().Dx())
	assert.Equal(t, ThumbSize, got.Bounds().Dy())
}

type stubPhotos struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubPhotos) Fetch(_ context.Context, url string) (image.Image, error) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	s.mu.Unlock()
	if strings.Contains(url, "broken") {
		return nil, errors.New("connection reset")
	}
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	return img, nil
}

func TestPDFSkipsBrokenPhotos(t *testing.T) {
	photos := &stubPhotos{}
	p := &PDF{Photos: photos}
	trip := Trip{
		Title:         "West coast",
		DepartureDate: "2025-06-01",
		Itinerary: []models.ItineraryRow{
			{Date: "2025-06-01", StartTime: "08:30", Activity: "Grand Canyon sunrise at Mather Point with a very long description"},
		},
		Places: []models.Place{
			{Name: "Grand Canyon", Lat: 36.1069, Lng: -112.1129, Address: "Arizona", PhotoURL: "https://photos.test/ok"},
			{Name: "Las Vegas", Lat: 36.1699, Lng: -115.1398, Address: "Nevada", PhotoURL: "https://photos.test/broken"},
			{Name: "Zion", Lat: 37.2982, Lng: -113.0263},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, p.Write(context.Background(), &buf, trip))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, []string{"https://photos.test/ok", "https://photos.test/broken"}, photos.calls)
}

func TestPDFWithoutPlaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PDF{}).Write(context.Background(), &buf, Trip{Title: "Empty"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
