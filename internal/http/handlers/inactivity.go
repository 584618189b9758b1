package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/escalation"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
	"github.com/dropDatabas3/haven/internal/security/tokens"
)

// InactivityHandler expone el registro de inactividad del usuario y los
// overrides manuales: reset, emisión de token y disparo de divulgación.
type InactivityHandler struct {
	Auth       auth.CurrentUserProvider
	Records    repository.InactivityRepository
	Audit      *audit.Service
	Disclosure *escalation.Disclosure
}

func (h *InactivityHandler) Register(r chi.Router) {
	r.Get("/v1/inactivity", h.get)
	r.Post("/v1/inactivity/reset", h.reset)
	r.Post("/v1/inactivity/token", h.createToken)
	r.Post("/v1/disclosure/trigger", h.triggerDisclosure)
}

type inactivityDTO struct {
	LastCheckedAt int  `json:"lastCheckedAt"`
	HasToken      bool `json:"hasToken"`
}

func (h *InactivityHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	rec, err := h.Records.Get(r.Context(), user.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "el usuario no tiene registro de inactividad")
			return
		}
		logger.From(r.Context()).Error("get inactivity failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer el registro")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, inactivityDTO{
		LastCheckedAt: rec.LastCheckedAt,
		HasToken:      rec.Token != "",
	})
}

func (h *InactivityHandler) reset(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	if err := h.Records.UpsertCounter(r.Context(), user.ID, 0); err != nil {
		logger.From(r.Context()).Error("reset inactivity failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo resetear el contador")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionInactivityReset, map[string]any{
		"source": "manual",
	}); err != nil {
		logger.From(r.Context()).Warn("reset audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, inactivityDTO{LastCheckedAt: 0})
}

func (h *InactivityHandler) createToken(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	token, err := tokens.NewWellnessToken()
	if err != nil {
		logger.From(r.Context()).Error("token generation failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo generar el token")
		return
	}
	if err := h.Records.SetToken(r.Context(), user.ID, token); err != nil {
		logger.From(r.Context()).Error("token store failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo guardar el token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *InactivityHandler) triggerDisclosure(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	if err := h.Disclosure.Trigger(r.Context(), user.ID); err != nil {
		logger.From(r.Context()).Error("manual disclosure failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo ejecutar la divulgación")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "triggered"})
}
