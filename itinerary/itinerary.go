package itinerary

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"roadtrip/db"
	"roadtrip/export"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/mq"
	"roadtrip/session"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// TripTitle heads the printed trip sheet.
const TripTitle = "Road trip"

type Handler struct {
	repo   *tripdata.Repo
	notify mq.Notifier
	pdf    *export.PDF
}

func NewHandler(repo *tripdata.Repo, notify mq.Notifier, pdf *export.PDF) *Handler {
	return &Handler{repo: repo, notify: notify, pdf: pdf}
}

// rows returns the itinerary in display order; indexes in the API refer to it.
func (h *Handler) rows(r *http.Request, sess *session.Session) ([]models.ItineraryRow, error) {
	rows, err := sess.Itinerary.Get(r.Context(), h.repo.LoadItinerary)
	if err != nil {
		return nil, err
	}
	return export.SortItinerary(rows), nil
}

// GetItinerary handles GET /api/itinerary
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	rows, err := h.rows(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"itinerary": rows})
}

// Validate trims row and checks its date, times and activity.
func Validate(row *models.ItineraryRow) string {
	row.Date = strings.TrimSpace(row.Date)
	row.StartTime = strings.TrimSpace(row.StartTime)
	row.EndTime = strings.TrimSpace(row.EndTime)
	row.Activity = strings.TrimSpace(row.Activity)
	row.Memo = strings.TrimSpace(row.Memo)

	if row.Activity == "" {
		return "enter an activity"
	}
	if _, err := time.Parse(dateLayout, row.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if _, err := time.Parse(timeLayout, row.StartTime); err != nil {
		return "start time must be HH:MM"
	}
	if row.EndTime != "" {
		if _, err := time.Parse(timeLayout, row.EndTime); err != nil {
			return "end time must be HH:MM"
		}
		if row.EndTime < row.StartTime {
			return "end time must not be before start time"
		}
	}
	return ""
}

// AddActivity handles POST /api/itinerary
func (h *Handler) AddActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var row models.ItineraryRow
	if err := utils.DecodeJSON(w, r, &row); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := Validate(&row); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	rows, err := h.rows(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	next := export.SortItinerary(utils.Append(rows, row))
	if !h.save(w, r, sess, next) {
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"itinerary": next})
}

// DeleteActivity handles DELETE /api/itinerary/:index
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	rows, err := h.rows(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(rows))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := utils.Remove(rows, i)
	if !h.save(w, r, sess, next) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"itinerary": next})
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, next []models.ItineraryRow) bool {
	if err := h.repo.SaveItinerary(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return false
	}
	sess.Itinerary.Set(next)
	h.notify.Emit(r.Context(), db.ItineraryCollection, mq.ActionSaved, sess.ID)
	return true
}

// ExportCSV handles GET /api/itinerary/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	rows, err := h.rows(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		slog.Error("CSV export failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not build the CSV file")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportPDF handles GET /api/itinerary/export.pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	ctx := r.Context()
	rows, err := h.rows(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	places, err := sess.Places.Get(ctx, h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	settings, err := sess.Settings.Get(ctx, h.repo.LoadSettings)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}

	trip := export.Trip{
		Title:         TripTitle,
		DepartureDate: settings.DepartureDate,
		Itinerary:     rows,
		Places:        places,
	}
	var buf bytes.Buffer
	if err := h.pdf.Write(ctx, &buf, trip); err != nil {
		slog.Error("PDF export failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not build the PDF file")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFilename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
