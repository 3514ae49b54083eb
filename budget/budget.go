package budget

import (
	"maps"
	"math"
	"net/http"
	"strings"
	"time"

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

type budgetView struct {
	Budget     models.Budget        `json:"budget"`
	Summary    models.BudgetSummary `json:"summary"`
	Categories []string             `json:"categories"`
	Members    []string             `json:"members"`
}

func (h *Handler) view(b models.Budget) budgetView {
	if b.Expenses == nil {
		b.Expenses = []models.Expense{}
	}
	return budgetView{
		Budget:     b,
		Summary:    b.Summarize(),
		Categories: models.BudgetCategories,
		Members:    h.repo.Members(),
	}
}

// GetBudget handles GET /api/budget
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	b, err := sess.Budget.Get(r.Context(), h.repo.LoadBudget)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.view(b))
}

type plannedRequest struct {
	Planned map[string]float64 `json:"planned"`
}

// UpdatePlanned handles PUT /api/budget/planned. Categories not named in the
// request keep their amount.
func (h *Handler) UpdatePlanned(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var req plannedRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for cat, amount := range req.Planned {
		if !models.IsBudgetCategory(cat) {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown budget category "+cat)
			return
		}
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			utils.RespondWithError(w, http.StatusBadRequest, "planned amounts must be zero or more")
			return
		}
	}

	b, err := sess.Budget.Get(r.Context(), h.repo.LoadBudget)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	next := models.Budget{Planned: maps.Clone(b.Planned), Expenses: b.Expenses}
	if next.Planned == nil {
		next.Planned = map[string]float64{}
	}
	maps.Copy(next.Planned, req.Planned)
	h.save(w, r, sess, next, http.StatusOK)
}

// ValidateExpense trims e and checks it against the category enum and the
// trip members.
func (h *Handler) ValidateExpense(e *models.Expense) string {
	e.Date = strings.TrimSpace(e.Date)
	e.Category = strings.TrimSpace(e.Category)
	e.Person = strings.TrimSpace(e.Person)
	e.Description = strings.TrimSpace(e.Description)

	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if !models.IsBudgetCategory(e.Category) {
		return "unknown budget category " + e.Category
	}
	if !h.repo.IsMember(e.Person) {
		return "person must be one of " + strings.Join(h.repo.Members(), ", ")
	}
	if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return "amount must be more than zero"
	}
	return ""
}

// AddExpense handles POST /api/budget/expenses
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := middleware.SessionFrom(r)
	var e models.Expense
	if err := utils.DecodeJSON(w, r, &e); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := h.ValidateExpense(&e); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	b, err := sess.Budget.Get(r.Context(), h.repo.LoadBudget)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	next := models.Budget{Planned: b.Planned, Expenses: utils.Append(b.Expenses, e)}
	h.save(w, r, sess, next, http.StatusCreated)
}

// DeleteExpense handles DELETE /api/budget/expenses/:index
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := middleware.SessionFrom(r)
	b, err := sess.Budget.Get(r.Context(), h.repo.LoadBudget)
	if err != nil {
		utils.RespondLoadError(w, err)
		return
	}
	i, err := utils.IndexParam(ps, "index", len(b.Expenses))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	next := models.Budget{Planned: b.Planned, Expenses: utils.Remove(b.Expenses, i)}
	h.save(w, r, sess, next, http.StatusOK)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, next models.Budget, status int) {
	if err := h.repo.SaveBudget(r.Context(), next); err != nil {
		utils.RespondSaveError(w, err)
		return
	}
	sess.Budget.Set(next)
	h.notify.Emit(r.Context(), db.BudgetCollection, mq.ActionSaved, sess.ID)
	utils.RespondWithJSON(w, status, h.view(next))
}
