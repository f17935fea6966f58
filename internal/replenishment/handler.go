package replenishment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danuandrean/pettycash/internal"
	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateReplenishment(dto CreateReplenishmentDTO, requestedByID int64) (*Replenishment, error)
	GetReplenishment(id int64) (*Replenishment, error)
	ListReplenishments(limit, offset int) ([]*Replenishment, error)
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

func (h *Handler) CreateReplenishment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateReplenishmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateReplenishment: invalid request body", "error", err)
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}

	rep, err := h.Service.CreateReplenishment(dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateReplenishment: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateReplenishment: replenishment created",
		"replenishment_id", rep.ID,
		"voucher_count", len(rep.VoucherIDs),
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) GetReplenishment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid replenishment ID")
		return
	}

	rep, err := h.Service.GetReplenishment(id)
	if err != nil {
		h.Logger.Error("GetReplenishment: service error", "error", err, "replenishment_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) ListReplenishments(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 20, 100)

	reps, err := h.Service.ListReplenishments(limit, offset)
	if err != nil {
		h.Logger.Error("ListReplenishments: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list replenishments")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"replenishments": reps,
		"limit":          limit,
		"offset":         offset,
	})
}
