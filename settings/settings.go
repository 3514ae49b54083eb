package settings

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"roadtrip/db"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/mq"
	"roadtrip/tripdata"
	"roadtrip/utils"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo   *tripdata.Repo
	notify mq.Notifier
	now    func() time.Time
}

func NewHandler(repo *tripdata.Repo, notify mq.Notifier) *Handler {
	return &Handler{repo: repo, notify: notify, now: time.Now}
}

type settingsView struct {
	Settings models.Settings `json:"settings"`
	// DaysUntilDeparture is negative once the trip has started and null when
	// no date is set.
	DaysUntilDeparture *int `json:"days_until_departure"`
}

// DaysUntil counts calendar days from today's date, as seen in today's
// location, to date.
func DaysUntil(date string, today time.Time) (int, bool) {
	dep, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(dep.Sub(start).Hours() / 24), true
}

func (h *Handler) view(s models.Settings) settingsView {
	v := settingsView{Settings: s}
	if days, ok := DaysUntil(s.DepartureDate, h.now()); ok {
		v.DaysUntilDeparture = &days
	}
	return v
}

// GetSettings handles GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	s, err := sess.Settings.Get(r.Context(), h.repo.LoadSettings)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view(s))
}

// UpdateSettings handles PUT /api/settings. An empty departure date clears it.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var s models.Settings
	if err := utils.DecodeJSON(w, r, &s); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.DepartureDate = strings.TrimSpace(s.DepartureDate)
	if s.DepartureDate != "" {
		if _, err := time.Parse(dateLayout, s.DepartureDate); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "departure date must be YYYY-MM-DD")
			return
		}
	}

	if err := h.repo.SaveSettings(r.Context(), s); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Settings.Set(s)
	h.notify.Emit(r.Context(), db.SettingsCollection, mq.ActionSaved, sess.ID)
	utils.RespondWithJSON(w, http.StatusOK, h.view(s))
}
