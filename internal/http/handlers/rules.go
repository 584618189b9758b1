package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// RulesHandler expone la regla de herencia del usuario autenticado.
type RulesHandler struct {
	Auth  auth.CurrentUserProvider
	Rules repository.RuleRepository
	Audit *audit.Service
}

func (h *RulesHandler) Register(r chi.Router) {
	r.Get("/v1/rule", h.get)
	r.Put("/v1/rule", h.put)
}

type ruleDTO struct {
	InactivityDuration int  `json:"inactivityDuration"`
	ApprovalRequired   bool `json:"approvalRequired"`
}

func (h *RulesHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	rule, err := h.Rules.GetByUser(r.Context(), user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "el usuario no tiene regla configurada")
			return
		}
		logger.From(r.Context()).Error("get rule failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer la regla")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ruleDTO{
		InactivityDuration: rule.InactivityDuration,
		ApprovalRequired:   rule.ApprovalRequired,
	})
}

func (h *RulesHandler) put(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	var in ruleDTO
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	if in.InactivityDuration < 1 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "inactivityDuration debe ser >= 1")
		return
	}

	rule := repository.Rule{
		UserID:             user.ID,
		InactivityDuration: in.InactivityDuration,
		ApprovalRequired:   in.ApprovalRequired,
	}
	if err := h.Rules.Upsert(r.Context(), rule); err != nil {
		logger.From(r.Context()).Error("upsert rule failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo guardar la regla")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionRuleUpdated, map[string]any{
		"inactivityDuration": in.InactivityDuration,
		"approvalRequired":   in.ApprovalRequired,
	}); err != nil {
		logger.From(r.Context()).Warn("rule audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, in)
}
