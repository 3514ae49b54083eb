package restaurants

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"roadtrip/db"
	"roadtrip/middleware"
	"roadtrip/models"
	"roadtrip/mq"
	"roadtrip/session"
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

// GetRestaurants handles GET /api/restaurants
func (h *Handler) GetRestaurants(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	list, err := sess.Restaurants.Get(r.Context(), h.repo.LoadRestaurants)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"restaurants": list})
}

// AddRestaurant handles POST /api/restaurants
func (h *Handler) AddRestaurant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var rest models.Restaurant
	if err := utils.DecodeJSON(w, r, &rest); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rest.Name = strings.TrimSpace(rest.Name)
	rest.Cuisine = strings.TrimSpace(rest.Cuisine)
	rest.City = strings.TrimSpace(rest.City)
	rest.Memo = strings.TrimSpace(rest.Memo)
	if rest.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "enter the restaurant name")
		return
	}

	list, err := sess.Restaurants.Get(r.Context(), h.repo.LoadRestaurants)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	h.save(w, r, sess, utils.Append(list, rest), http.StatusCreated, mq.ActionSaved)
}

// ToggleVisited handles PUT /api/restaurants/:index/visited
func (h *Handler) ToggleVisited(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	list, err := sess.Restaurants.Get(r.Context(), h.repo.LoadRestaurants)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(list))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := append([]models.Restaurant(nil), list...)
	next[i].Visited = !next[i].Visited
	h.save(w, r, sess, next, http.StatusOK, mq.ActionSaved)
}

// DeleteRestaurant handles DELETE /api/restaurants/:index
func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	list, err := sess.Restaurants.Get(r.Context(), h.repo.LoadRestaurants)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(list))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.save(w, r, sess, utils.Remove(list, i), http.StatusOK, mq.ActionDeleted)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, next []models.Restaurant, status int, action string) {
	if err := h.repo.SaveRestaurants(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Restaurants.Set(next)
	h.notify.Emit(r.Context(), db.RestaurantsCollection, action, sess.ID)
	utils.RespondWithJSON(w, status, utils.M{"restaurants": next})
}
