package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roadtrip/db"
	"roadtrip/gmaps"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/mq"
	"roadtrip/session"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

const (
	warnSearchFailed  = "search failed, please try again in a moment"
	warnNoResults     = "no results, try a different search"
	warnNoDetail      = "details for this place are not available, pick another result"
	warnNoLocation    = "this place has no location, pick another result"
	warnDetailNetwork = "network error while loading the place, please try again"
)

type Handler struct {
	repo    *tripdata.Repo
	gateway gmaps.Gateway
	notify  mq.Notifier
}

func NewHandler(repo *tripdata.Repo, gateway gmaps.Gateway, notify mq.Notifier) *Handler {
	return &Handler{repo: repo, gateway: gateway, notify: notify}
}

// searchView is what the search panel renders.
type searchView struct {
	Candidates []models.Candidate  `json:"candidates"`
	Preview    *models.PlaceDetail `json:"preview"`
	Duplicate  bool                `json:"duplicate"`
	Warning    string              `json:"warning,omitempty"`
}

func view(s *session.Session, places []models.Place, warning string) searchView {
	v := searchView{Candidates: s.UI.Candidates, Preview: s.UI.Preview, Warning: warning}
	if v.Candidates == nil {
		v.Candidates = []models.Candidate{}
	}
	if v.Preview != nil {
		v.Duplicate = indexOf(places, v.Preview.Name) >= 0
	}
	return v
}

func indexOf(places []models.Place, name string) int {
	for i, p := range places {
		if p.Name == name {
			return i
		}
	}
	return -1
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /api/places/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var req searchRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "enter a place name to search")
		return
	}

	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}

	candidates, err := h.gateway.Autocomplete(r.Context(), query)
	sess.UI.ClearSearch()
	if err != nil {
		slog.Warn("Autocomplete failed", "query", query, "error", err)
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnSearchFailed))
		return
	}
	if len(candidates) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnNoResults))
		return
	}
	sess.UI.Candidates = gmaps.RankCandidates(candidates)
	utils.RespondWithJSON(w, http.StatusOK, view(sess, places, ""))
}

type previewRequest struct {
	PlaceID string `json:"place_id"`
}

// Preview handles POST /api/places/preview
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var req previewRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil || req.PlaceID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "place_id is required")
		return
	}

	var candidate *models.Candidate
	for i := range sess.UI.Candidates {
		if sess.UI.Candidates[i].PlaceID == req.PlaceID {
			candidate = &sess.UI.Candidates[i]
			break
		}
	}
	if candidate == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "pick one of the search results")
		return
	}

	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}

	if sess.UI.FailedPlaceIDs[req.PlaceID] {
		sess.UI.Preview = nil
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnNoDetail))
		return
	}
	if sess.UI.Preview != nil && sess.UI.Preview.PlaceID == req.PlaceID {
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, ""))
		return
	}

	detail, err := h.gateway.PlaceDetail(r.Context(), req.PlaceID)
	switch {
	case errors.Is(err, gmaps.ErrFieldsNotPermitted):
		sess.UI.FailedPlaceIDs[req.PlaceID] = true
		sess.UI.Preview = nil
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnNoDetail))
		return
	case errors.Is(err, gmaps.ErrNoGeometry):
		sess.UI.FailedPlaceIDs[req.PlaceID] = true
		sess.UI.Preview = nil
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnNoLocation))
		return
	case err != nil:
		slog.Warn("Place detail failed", "place_id", req.PlaceID, "error", err)
		sess.UI.Preview = nil
		utils.RespondWithJSON(w, http.StatusOK, view(sess, places, warnDetailNetwork))
		return
	}

	preview := *detail
	if preview.Name == "" {
		preview.Name = candidate.Description
	}
	preview.PlaceID = req.PlaceID
	sess.UI.Preview = &preview
	utils.RespondWithJSON(w, http.StatusOK, view(sess, places, ""))
}

// Add handles POST /api/places and adds the current preview.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	preview := sess.UI.Preview
	if preview == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "preview a place before adding it")
		return
	}

	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	if indexOf(places, preview.Name) >= 0 {
		utils.RespondWithError(w, http.StatusConflict, "'"+preview.Name+"' is already on the map")
		return
	}

	next := utils.Append(places, preview.AsPlace())
	if !h.save(w, r, sess, next) {
		return
	}
	sess.UI.ClearSearch()
	slog.Info("Place added", "name", preview.Name)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"places": next})
}

// List handles GET /api/places
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"places": places})
}

// Delete handles DELETE /api/places/:index
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(places))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	removed := places[i]
	next := utils.Remove(places, i)
	if !h.save(w, r, sess, next) {
		return
	}
	if rt := sess.UI.Route; rt != nil && (rt.Start.Name == removed.Name || rt.End.Name == removed.Name) {
		sess.UI.Route = nil
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"places": next})
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Reorder handles PUT /api/places/order
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var req reorderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	if req.From < 0 || req.From >= len(places) || req.To < 0 || req.To >= len(places) {
		utils.RespondWithError(w, http.StatusBadRequest, "position out of range")
		return
	}
	if req.From == req.To {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"places": places})
		return
	}

	next := Move(places, req.From, req.To)
	if !h.save(w, r, sess, next) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"places": next})
}

// Move returns a copy of places with the stop at from moved to position to.
func Move(places []models.Place, from, to int) []models.Place {
	moved := places[from]
	rest := utils.Remove(places, from)
	out := make([]models.Place, 0, len(places))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	return append(out, rest[to:]...)
}

// save writes the new list and, only on success, applies it to the session
// and drops the segment times computed for the old list.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, next []models.Place) bool {
	if err := h.repo.SavePlaces(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return false
	}
	sess.Places.Set(next)
	sess.Segments.Invalidate()
	h.notify.Emit(r.Context(), db.PlacesCollection, mq.ActionSaved, sess.ID)
	return true
}
