package hotels

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

// Normalize trims h, checks the dates and fills in the night count.
func Normalize(h *models.Hotel) string {
	for _, p := range []*string{&h.Name, &h.Address, &h.Checkin, &h.Checkout, &h.Confirmation, &h.Memo} {
		*p = strings.TrimSpace(*p)
	}
	if h.Name == "" {
		return "enter the hotel name"
	}
	nights, err := models.Nights(h.Checkin, h.Checkout)
	if err != nil {
		return "check-in and check-out must be YYYY-MM-DD"
	}
	if nights <= 0 {
		return "check-out must be after check-in"
	}
	h.Nights = nights
	return ""
}

// GetHotels handles GET /api/hotels
func (h *Handler) GetHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	hotels, err := sess.Hotels.Get(r.Context(), h.repo.LoadHotels)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hotels": hotels, "total_nights": totalNights(hotels)})
}

func totalNights(hotels []models.Hotel) int {
	n := 0
	for _, h := range hotels {
		n += h.Nights
	}
	return n
}

// AddHotel handles POST /api/hotels
func (h *Handler) AddHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var hotel models.Hotel
	if err := utils.DecodeJSON(w, r, &hotel); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := Normalize(&hotel); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	hotels, err := sess.Hotels.Get(r.Context(), h.repo.LoadHotels)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	next := utils.Append(hotels, hotel)
	if err := h.repo.SaveHotels(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Hotels.Set(next)
	h.notify.Emit(r.Context(), db.HotelsCollection, mq.ActionSaved, sess.ID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"hotels": next, "total_nights": totalNights(next)})
}

// DeleteHotel handles DELETE /api/hotels/:index
func (h *Handler) DeleteHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	hotels, err := sess.Hotels.Get(r.Context(), h.repo.LoadHotels)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(hotels))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := utils.Remove(hotels, i)
	if err := h.repo.SaveHotels(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Hotels.Set(next)
	h.notify.Emit(r.Context(), db.HotelsCollection, mq.ActionDeleted, sess.ID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hotels": next, "total_nights": totalNights(next)})
}
