package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

const defaultAuditLimit = 100

// AuditService defines the interface for audit log queries
type AuditService interface {
	List(ctx context.Context, limit int) ([]*entities.AuditRecord, error)
}

// AuditHandler handles audit log requests
type AuditHandler struct {
	service AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{
		service: service,
	}
}

// ListRecords handles GET /api/admin/logs
func (h *AuditHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
	})
}
