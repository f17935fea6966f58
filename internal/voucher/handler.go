package voucher

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
	CreateVoucher(dto CreateVoucherDTO, requestedByID int64) (*Voucher, error)
	GetVoucher(id int64) (*Voucher, error)
	ListVouchers(status string, limit, offset int) ([]*Voucher, error)
	ApproveVoucher(voucherID, approverID int64) (*Voucher, error)
	RejectVoucher(voucherID, approverID int64) (*Voucher, error)
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

func (h *Handler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateVoucherDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateVoucher: invalid request body", "error", err)
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}

	v, err := h.Service.CreateVoucher(dto, user.ID)
	if err != nil {
		h.Logger.Error("CreateVoucher: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateVoucher: voucher created",
		"voucher_id", v.ID,
		"voucher_number", v.VoucherNumber,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid voucher ID")
		return
	}

	v, err := h.Service.GetVoucher(id)
	if err != nil {
		h.Logger.Error("GetVoucher: service error", "error", err, "voucher_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 20, 100)

	status := r.URL.Query().Get("status")
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected, StatusReplenished:
	default:
		h.HandleServiceError(w, internal.NewValidationError("invalid status filter", internal.ErrCodeInvalidStatus).
			WithDetails(map[string]string{"status": status}))
		return
	}

	vouchers, err := h.Service.ListVouchers(status, limit, offset)
	if err != nil {
		h.Logger.Error("ListVouchers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list vouchers")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"vouchers": vouchers,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) ApproveVoucher(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusApproved)
}

func (h *Handler) RejectVoucher(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusRejected)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target string) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid voucher ID")
		return
	}

	var v *Voucher
	if target == StatusApproved {
		v, err = h.Service.ApproveVoucher(id, user.ID)
	} else {
		v, err = h.Service.RejectVoucher(id, user.ID)
	}
	if err != nil {
		h.Logger.Error("transition: service error", "error", err, "voucher_id", id, "target", target)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, v)
}
