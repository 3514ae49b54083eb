// Package maps serves the route calculator, the segment times and the map
// view model.
package maps

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roadtrip/gmaps"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/segments"
	"roadtrip/session"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

const (
	warnRouteNetwork = "network error while finding the route, please try again"
	warnNoRoute      = "no driving route found between these places"
	warnSomeSegments = "driving time could not be found for some legs"
)

type Handler struct {
	repo    *tripdata.Repo
	gateway gmaps.Gateway
}

func NewHandler(repo *tripdata.Repo, gateway gmaps.Gateway) *Handler {
	return &Handler{repo: repo, gateway: gateway}
}

type routeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func find(places []models.Place, name string) (models.Place, bool) {
	for _, p := range places {
		if p.Name == name {
			return p, true
		}
	}
	return models.Place{}, false
}

// CalculateRoute handles POST /api/route
func (h *Handler) CalculateRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var req routeRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Start, req.End = strings.TrimSpace(req.Start), strings.TrimSpace(req.End)
	if req.Start == req.End {
		utils.RespondWithError(w, http.StatusBadRequest, "pick two different places")
		return
	}

	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	start, ok1 := find(places, req.Start)
	end, ok2 := find(places, req.End)
	if !ok1 || !ok2 {
		utils.RespondWithError(w, http.StatusBadRequest, "both places must be on the map")
		return
	}

	route, err := segments.Lookup(r.Context(), h.gateway, start, end)
	if err != nil {
		slog.Warn("Route lookup failed", "start", start.Name, "end", end.Name, "error", err)
		sess.UI.Route = nil
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"route": nil, "warning": warnRouteNetwork})
		return
	}
	if route == nil {
		sess.UI.Route = nil
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"route": nil, "warning": warnNoRoute})
		return
	}

	sess.UI.Route = &models.RouteResult{
		Start:        start,
		End:          end,
		DurationText: route.DurationText,
		DistanceText: route.DistanceText,
		Polyline:     route.Polyline,
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"route": sess.UI.Route})
}

// ClearRoute handles DELETE /api/route
func (h *Handler) ClearRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	sess.UI.Route = nil
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"route": nil})
}

// ToggleSegments handles POST /api/segments/toggle. Switching on drops any
// remembered times so they are fetched fresh.
func (h *Handler) ToggleSegments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	sess.UI.ShowSegments = !sess.UI.ShowSegments
	if sess.UI.ShowSegments {
		sess.Segments.Invalidate()
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"show_segments": sess.UI.ShowSegments})
}

// GetSegments handles GET /api/segments
func (h *Handler) GetSegments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	segs := sess.Segments.Segments(r.Context(), places, h.gateway)
	resp := utils.M{"segments": segs}
	if hasGap(segs) {
		resp["warning"] = warnSomeSegments
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetMap handles GET /api/map
func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	v, warning, err := h.view(r, sess)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	resp := utils.M{"map": v}
	if warning != "" {
		resp["warning"] = warning
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) view(r *http.Request, sess *session.Session) (View, string, error) {
	places, err := sess.Places.Get(r.Context(), h.repo.LoadPlaces)
	if err != nil {
		return View{}, "", err
	}
	in := ViewInput{
		Places:       places,
		Preview:      sess.UI.Preview,
		Route:        sess.UI.Route,
		ShowSegments: sess.UI.ShowSegments,
	}
	var warning string
	if in.ShowSegments {
		in.Segments = sess.Segments.Segments(r.Context(), places, h.gateway)
		if hasGap(in.Segments) {
			warning = warnSomeSegments
		}
	}
	return BuildView(in), warning, nil
}

func hasGap(segs []*models.Segment) bool {
	for _, s := range segs {
		if s == nil {
			return true
		}
	}
	return false
}
