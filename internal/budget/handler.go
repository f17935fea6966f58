package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateBudget(dto CreateBudgetDTO, actingUserID int64) (*AccountBudget, error)
	GetBudget(id int64) (*AccountBudget, error)
	ListBudgets() ([]*AccountBudget, error)
	UpdateBudget(id int64, dto UpdateBudgetDTO, actingUserID int64) (*AccountBudget, error)
	DeleteBudget(id int64, actingUserID int64) error
	GetBudgetStatuses() ([]*BudgetStatus, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.Service.ListBudgets()
	if err != nil {
		h.Logger.Error("ListBudgets: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

// GetBudgetStatuses serves the budget monitor aggregation: every budget
// with spending recomputed on this call.
func (h *Handler) GetBudgetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Service.GetBudgetStatuses()
	if err != nil {
		h.Logger.Error("GetBudgetStatuses: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to compute budget statuses")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"budgets": statuses})
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBudget(dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateBudget: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	var dto UpdateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBudget(id, dto, user.ID)
	if err != nil {
		h.Logger.Error("UpdateBudget: service error", "error", err, "budget_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	if err := h.Service.DeleteBudget(id, user.ID); err != nil {
		h.Logger.Error("DeleteBudget: service error", "error", err, "budget_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
