package checklist

import (
	"maps"
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

type checklistView struct {
	Person  string                 `json:"person"`
	Items   []models.ChecklistItem `json:"items"`
	Checked int                    `json:"checked"`
	Total   int                    `json:"total"`
}

func view(person string, items []models.ChecklistItem) checklistView {
	if items == nil {
		items = []models.ChecklistItem{}
	}
	v := checklistView{Person: person, Items: items, Total: len(items)}
	for _, it := range items {
		if it.Checked {
			v.Checked++
		}
	}
	return v
}

// list resolves the :person path segment and returns that member's items.
// It writes the response itself when it returns ok == false.
func (h *Handler) list(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (sess *session.Session, person string, items []models.ChecklistItem, ok bool) {
	sess = middleware.SessionFrom(r)
	person = ps.ByName("person")
	if !h.repo.IsMember(person) {
		utils.RespondWithError(w, http.StatusNotFound, "no checklist for "+person)
		return nil, "", nil, false
	}
	lists, err := sess.Checklist.Get(r.Context(), h.repo.LoadChecklist)
	if err != nil {
		utils.RespondLoadError(w, err)
		return nil, "", nil, false
	}
	return sess, person, lists[person], true
}

// GetChecklist handles GET /api/checklist/:person
func (h *Handler) GetChecklist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, person, items, ok := h.list(w, r, ps)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view(person, items))
}

type addRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// AddItem handles POST /api/checklist/:person
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item := models.ChecklistItem{
		Category: strings.TrimSpace(req.Category),
		Name:     strings.TrimSpace(req.Name),
	}
	if item.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "enter an item name")
		return
	}
	if item.Category == "" {
		item.Category = "misc"
	}

	sess, person, items, ok := h.list(w, r, ps)
	if !ok {
		return
	}
	h.save(w, r, sess, person, utils.Append(items, item), http.StatusCreated)
}

// ToggleItem handles PUT /api/checklist/:person/:index/toggle
func (h *Handler) ToggleItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, person, items, ok := h.list(w, r, ps)
	if !ok {
		return
	}
	i, err := utils.IndexParam(ps, "index", len(items))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := append([]models.ChecklistItem(nil), items...)
	next[i].Checked = !next[i].Checked
	h.save(w, r, sess, person, next, http.StatusOK)
}

// DeleteItem handles DELETE /api/checklist/:person/:index
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, person, items, ok := h.list(w, r, ps)
	if !ok {
		return
	}
	i, err := utils.IndexParam(ps, "index", len(items))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.save(w, r, sess, person, utils.Remove(items, i), http.StatusOK)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, person string, items []models.ChecklistItem, status int) {
	if err := h.repo.SaveChecklist(r.Context(), person, items); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	lists, _ := sess.Checklist.Peek()
	next := maps.Clone(lists)
	if next == nil {
		next = models.Checklists{}
	}
	next[person] = items
	sess.Checklist.Set(next)
	h.notify.Emit(r.Context(), db.ChecklistCollection, mq.ActionSaved, sess.ID)
	utils.RespondWithJSON(w, status, view(person, items))
}
