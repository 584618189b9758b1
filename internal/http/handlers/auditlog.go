package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// AuditLogHandler expone el historial de auditoría del usuario.
type AuditLogHandler struct {
	Auth  auth.CurrentUserProvider
	Audit *audit.Service
}

func (h *AuditLogHandler) Register(r chi.Router) {
	r.Get("/v1/audit", h.list)
}

type auditEntryDTO struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

func (h *AuditLogHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := h.Audit.ListByUser(r.Context(), user.ID, limit)
	if err != nil {
		logger.From(r.Context()).Error("list audit failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer el historial")
		return
	}

	out := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryDTO{
			ID:        e.ID,
			Action:    e.Action,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}
