package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danuandrean/pettycash/internal/auth"
	"github.com/danuandrean/pettycash/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateUser(dto CreateUserDTO, actingUserID int64) (*User, error)
	GetUser(id int64) (*User, error)
	ListUsers(limit, offset int) ([]*User, error)
	DeactivateUser(id int64) error
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

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(dto, actor.ID)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 20, 100)

	users, err := h.Service.ListUsers(limit, offset)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.Service.DeactivateUser(id); err != nil {
		h.Logger.Error("DeactivateUser: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
