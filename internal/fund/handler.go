package fund

import (
	"encoding/json"
	"net/http"

	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/transport"
)

type ServiceAPI interface {
	GetFund() (*Fund, error)
	CreateFund(dto CreateFundDTO, actingUserID int64) (*Fund, error)
	UpdateImprestAmount(dto UpdateImprestDTO, actingUserID int64) (*Fund, error)
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

func (h *Handler) GetFund(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.GetFund()
	if err != nil {
		h.Logger.Error("GetFund: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewFundView(f))
}

func (h *Handler) CreateFund(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateFundDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.Service.CreateFund(dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateFund: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, NewFundView(f))
}

func (h *Handler) UpdateImprestAmount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateImprestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.Service.UpdateImprestAmount(dto, user.ID)
	if err != nil {
		h.Logger.Error("UpdateImprestAmount: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewFundView(f))
}
