package flights

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roadtrip/db"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/mq"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

type Handler struct {
	repo   *tripdata.Repo
	notify mq.Notifier
}

func NewHandler(repo *tripdata.Repo, notify mq.Notifier) *Handler {
	return &Handler{repo: repo, notify: notify}
}

// Normalize trims f and defaults its type to outbound.
func Normalize(f *models.Flight) string {
	for _, p := range []*string{
		&f.Type, &f.Airline, &f.FlightNo, &f.DepAirport, &f.DepDatetime,
		&f.ArrAirport, &f.ArrDatetime, &f.Seat, &f.Confirmation, &f.Memo,
	} {
		*p = strings.TrimSpace(*p)
	}
	f.DepAirport = strings.ToUpper(f.DepAirport)
	f.ArrAirport = strings.ToUpper(f.ArrAirport)

	switch f.Type {
	case "":
		f.Type = models.FlightOutbound
	case models.FlightOutbound, models.FlightReturn, models.FlightDomestic:
	default:
		return "type must be outbound, return or domestic"
	}
	if f.Airline == "" && f.FlightNo == "" {
		return "enter an airline or a flight number"
	}
	return ""
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	flights, err := sess.Flights.Get(r.Context(), h.repo.LoadFlights)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"flights": flights})
}

// AddFlight handles POST /api/flights
func (h *Handler) AddFlight(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var f models.Flight
	if err := utils.DecodeJSON(w, r, &f); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := Normalize(&f); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	flights, err := sess.Flights.Get(r.Context(), h.repo.LoadFlights)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	next := utils.Append(flights, f)
	if err := h.repo.SaveFlights(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Flights.Set(next)
	h.notify.Emit(r.Context(), db.FlightsCollection, mq.ActionSaved, sess.ID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"flights": next})
}

// DeleteFlight handles DELETE /api/flights/:index
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	flights, err := sess.Flights.Get(r.Context(), h.repo.LoadFlights)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(flights))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := utils.Remove(flights, i)
	if err := h.repo.SaveFlights(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Flights.Set(next)
	h.notify.Emit(r.Context(), db.FlightsCollection, mq.ActionDeleted, sess.ID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"flights": next})
}
