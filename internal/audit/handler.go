package audit

import (
	"net/http"
	"strconv"

	"github.com/danuandrean/pettycash/internal/transport"
)

type ServiceAPI interface {
	ListLogs(entityType string, entityID int64, limit, offset int) ([]*AuditLog, error)
	PurgeExpired() (int64, error)
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

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := transport.Pagination(r, 50, 200)

	entityType := r.URL.Query().Get("entity_type")
	var entityID int64
	if raw := r.URL.Query().Get("entity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entity_id")
			return
		}
		entityID = id
	}

	logs, err := h.Service.ListLogs(entityType, entityID, limit, offset)
	if err != nil {
		h.Logger.Error("ListLogs: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"audit_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) PurgeExpired(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Service.PurgeExpired()
	if err != nil {
		h.Logger.Error("PurgeExpired: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to purge audit logs")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	})
}
