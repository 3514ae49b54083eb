// Package home serves the whole planner state in one call, for the first
// page load and after a change-feed event.
package home

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/session"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

type section func(ctx context.Context, s *session.Session) (any, error)

func wrap[T any](slot func(*session.Session) *session.Slot[T], load func(context.Context) (T, error)) section {
	return func(ctx context.Context, s *session.Session) (any, error) {
		return slot(s).Get(ctx, load)
	}
}

// sectionOrder is the order sections are loaded in for the full state.
var sectionOrder = []string{"places", "itinerary", "flights", "hotels", "budget", "checklist", "restaurants", "settings"}

type Handler struct {
	repo     *tripdata.Repo
	sections map[string]section
}

func NewHandler(repo *tripdata.Repo) *Handler {
	return &Handler{
		repo: repo,
		sections: map[string]section{
			"places":      wrap(func(s *session.Session) *session.Slot[[]models.Place] { return &s.Places }, repo.LoadPlaces),
			"itinerary":   wrap(func(s *session.Session) *session.Slot[[]models.ItineraryRow] { return &s.Itinerary }, repo.LoadItinerary),
			"flights":     wrap(func(s *session.Session) *session.Slot[[]models.Flight] { return &s.Flights }, repo.LoadFlights),
			"hotels":      wrap(func(s *session.Session) *session.Slot[[]models.Hotel] { return &s.Hotels }, repo.LoadHotels),
			"budget":      wrap(func(s *session.Session) *session.Slot[models.Budget] { return &s.Budget }, repo.LoadBudget),
			"checklist":   wrap(func(s *session.Session) *session.Slot[models.Checklists] { return &s.Checklist }, repo.LoadChecklist),
			"restaurants": wrap(func(s *session.Session) *session.Slot[[]models.Restaurant] { return &s.Restaurants }, repo.LoadRestaurants),
			"settings":    wrap(func(s *session.Session) *session.Slot[models.Settings] { return &s.Settings }, repo.LoadSettings),
		},
	}
}

type uiView struct {
	Candidates   []models.Candidate  `json:"candidates"`
	Preview      *models.PlaceDetail `json:"preview"`
	Route        *models.RouteResult `json:"route"`
	ShowSegments bool                `json:"show_segments"`
}

func (h *Handler) state(ctx context.Context, sess *session.Session) (utils.M, error) {
	out := utils.M{}
	for _, name := range sectionOrder {
		v, err := h.sections[name](ctx, sess)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	candidates := sess.UI.Candidates
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	out["ui"] = uiView{
		Candidates:   candidates,
		Preview:      sess.UI.Preview,
		Route:        sess.UI.Route,
		ShowSegments: sess.UI.ShowSegments,
	}
	out["members"] = h.repo.Members()
	return out, nil
}

// GetState handles GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	out, err := h.state(r.Context(), sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetSection handles GET /api/state/:section
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := strings.ToLower(ps.ByName("section"))
	load, ok := h.sections[name]
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "unknown section "+name)
		return
	}
	v, err := load(r.Context(), middleware.SessionFrom(r))
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{name: v})
}

// Reload handles POST /api/state/reload. It drops everything the session has
// read so far and returns a fresh copy from storage.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	sess.Reload()
	out, err := h.state(r.Context(), sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
