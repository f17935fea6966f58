package account

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateAccount(dto CreateAccountDTO, actingUserID int64) (*ChartOfAccount, error)
	GetAccount(id int64) (*ChartOfAccount, error)
	GetAccounts() ([]*ChartOfAccount, error)
	UpdateAccount(id int64, dto UpdateAccountDTO, actingUserID int64) (*ChartOfAccount, error)
	DeleteAccount(id int64, actingUserID int64) error
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

func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.GetAccounts()
	if err != nil {
		h.Logger.Error("GetAccounts: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	a, err := h.Service.GetAccount(id)
	if err != nil {
		h.Logger.Error("GetAccount: service error", "error", err, "account_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.CreateAccount(dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateAccount: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	var dto UpdateAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.UpdateAccount(id, dto, user.ID)
	if err != nil {
		h.Logger.Error("UpdateAccount: service error", "error", err, "account_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid account ID")
		return
	}

	if err := h.Service.DeleteAccount(id, user.ID); err != nil {
		h.Logger.Error("DeleteAccount: service error", "error", err, "account_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
