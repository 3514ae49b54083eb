package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"roadtrip/gmaps"
	"roadtrip/models"
)

// PDFFilename is the name the trip sheet is downloaded as.
const PDFFilename = "trip.pdf"

// Trip is everything printed on the trip sheet.
type Trip struct {
	Title         string
	DepartureDate string
	Itinerary     []models.ItineraryRow
	Places        []models.Place
}

// PDF renders trip sheets. FontFile, when set, is a UTF-8 TrueType font used
// for all text; otherwise the built-in Arial is used and non-Latin text is
// lost.
type PDF struct {
	Photos   PhotoFetcher
	FontFile string
}

const (
	fontFamily  = "trip"
	thumbMM     = 18.0
	qrMM        = 45.0
	pageBottom  = 277.0
	columnGapMM = 2.0
)

var itineraryWidths = []float64{24, 16, 16, 70, 64}

// Write renders trip to w. Photos that cannot be fetched are left out.
func (p *PDF) Write(ctx context.Context, w io.Writer, trip Trip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)

	family := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if p.FontFile != "" {
		pdf.AddUTF8Font(fontFamily, "", p.FontFile)
		pdf.AddUTF8Font(fontFamily, "B", p.FontFile)
		family = fontFamily
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, tr(trip.Title))
	pdf.Ln(10)
	if trip.DepartureDate != "" {
		pdf.SetFont(family, "", 11)
		pdf.Cell(0, 8, tr("Departure: "+trip.DepartureDate))
		pdf.Ln(10)
	}

	p.itinerary(pdf, family, tr, trip.Itinerary)
	p.stops(ctx, pdf, family, tr, trip.Places)

	if link := gmaps.DirectionsURL(trip.Places); link != "" {
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("qr code: %w", err)
		}
		if pdf.GetY()+qrMM+10 > pageBottom {
			pdf.AddPage()
		}
		pdf.SetFont(family, "B", 13)
		pdf.Cell(0, 8, tr("Directions"))
		pdf.Ln(9)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("qr", pdf.GetX(), pdf.GetY(), qrMM, qrMM, false, opts, 0, link)
		pdf.Ln(qrMM + 2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (p *PDF) itinerary(pdf *gofpdf.Fpdf, family string, tr func(string) string, rows []models.ItineraryRow) {
	pdf.SetFont(family, "B", 13)
	pdf.Cell(0, 8, tr("Itinerary"))
	pdf.Ln(9)
	if len(rows) == 0 {
		pdf.SetFont(family, "", 10)
		pdf.Cell(0, 6, tr("No activities yet."))
		pdf.Ln(10)
		return
	}

	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(230, 236, 245)
	for i, h := range []string{"Date", "Start", "End", "Activity", "Memo"} {
		pdf.CellFormat(itineraryWidths[i], 7, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, r := range SortItinerary(rows) {
		cells := []string{r.Date, r.StartTime, r.EndTime, r.Activity, r.Memo}
		for i, c := range cells {
			pdf.CellFormat(itineraryWidths[i], 6, fit(pdf, tr, c, itineraryWidths[i]-columnGapMM), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (p *PDF) stops(ctx context.Context, pdf *gofpdf.Fpdf, family string, tr func(string) string, places []models.Place) {
	if len(places) == 0 {
		return
	}
	pdf.SetFont(family, "B", 13)
	pdf.Cell(0, 8, tr("Stops"))
	pdf.Ln(9)

	for i, pl := range places {
		if pdf.GetY()+thumbMM+2 > pageBottom {
			pdf.AddPage()
		}
		x, y := pdf.GetX(), pdf.GetY()
		if name, ok := p.thumbnail(ctx, pdf, i, pl.PhotoURL); ok {
			pdf.ImageOptions(name, x, y, thumbMM, thumbMM, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
		}
		pdf.SetXY(x+thumbMM+4, y)
		pdf.SetFont(family, "B", 11)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%d. %s", i+1, pl.Name)))
		pdf.SetXY(x+thumbMM+4, y+7)
		pdf.SetFont(family, "", 9)
		pdf.Cell(0, 6, tr(pl.Address))
		pdf.SetXY(x, y+thumbMM+3)
	}
	pdf.Ln(4)
}

// thumbnail registers the photo for stop i and reports whether there is one.
func (p *PDF) thumbnail(ctx context.Context, pdf *gofpdf.Fpdf, i int, url string) (string, bool) {
	if url == "" || p.Photos == nil {
		return "", false
	}
	img, err := p.Photos.Fetch(ctx, url)
	if err != nil {
		slog.Warn("Skipping stop photo", "stop", i+1, "error", err)
		return "", false
	}
	data, err := encodeJPEG(Thumbnail(img, ThumbSize))
	if err != nil {
		slog.Warn("Skipping stop photo", "stop", i+1, "error", err)
		return "", false
	}
	name := fmt.Sprintf("stop-%d", i)
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(data))
	return name, true
}

// fit translates s, shortened until it fits in width millimetres at the
// current font.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
