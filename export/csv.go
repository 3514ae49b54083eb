// Package export renders the trip for download.
package export

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"roadtrip/models"
	"roadtrip/tripdata"
)

// CSVFilename is the name the itinerary is downloaded as.
const CSVFilename = "trip_itinerary.csv"

// SortItinerary returns a copy of rows ordered by date, then start time.
func SortItinerary(rows []models.ItineraryRow) []models.ItineraryRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b models.ItineraryRow) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.StartTime, b.StartTime))
	})
	return out
}

// WriteCSV writes the itinerary with a header row, sorted.
func WriteCSV(w io.Writer, rows []models.ItineraryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tripdata.ItineraryColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range SortItinerary(rows) {
		if err := cw.Write([]string{r.Date, r.StartTime, r.EndTime, r.Activity, r.Memo}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
