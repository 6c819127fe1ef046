package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Alan16168/review-system-sub000/internal/models"
)

// AuditLister reads audit entries
type AuditLister interface {
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
}

// AuditHandler handles audit log requests
type AuditHandler struct {
	audit AuditLister
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{
		audit: audit,
	}
}

// ListAuditLogs lists audit logs newest first (admin only)
// @Summary List audit logs
// @Description Lock, unlock and review deletion entries, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Items per page" default(50)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {array} models.AuditLog
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		respondWithBadRequest(w, r, "Invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		respondWithBadRequest(w, r, "Invalid offset")
		return
	}

	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

// queryInt reads an optional non-negative integer; absent means 0
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil && n >= 0
}
