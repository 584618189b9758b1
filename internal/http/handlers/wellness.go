package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/escalation"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// WellnessHandler expone los overrides anónimos por token que llegan en
// los mails de alerta a los contactos:
//
//   - confirm: "el usuario está bien" -> resetea el contador.
//   - concern: "algo le pasó" -> dispara la divulgación ya, sin esperar
//     a que el contador llegue al umbral.
//
// Son endpoints públicos: siempre resuelven a un resultado nominal
// (ok / not_found / missing_token / error), nunca a un fault crudo.
type WellnessHandler struct {
	Records    repository.InactivityRepository
	Audit      *audit.Service
	Disclosure *escalation.Disclosure
}

func (h *WellnessHandler) Register(r chi.Router) {
	r.Post("/v1/wellness/confirm", h.confirm)
	r.Post("/v1/wellness/concern", h.concern)
}

type wellnessIn struct {
	Token string `json:"token"`
}

type wellnessOut struct {
	Status string `json:"status"`
}

func (h *WellnessHandler) lookup(w http.ResponseWriter, r *http.Request) (*repository.InactivityCheck, bool) {
	var in wellnessIn
	if !httpx.ReadJSON(w, r, &in) {
		return nil, false
	}
	token := strings.TrimSpace(in.Token)
	if token == "" {
		httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "missing_token"})
		return nil, false
	}

	rec, err := h.Records.FindByToken(r.Context(), token)
	if err != nil {
		if repository.IsNotFound(err) {
			httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "not_found"})
		} else {
			logger.From(r.Context()).Error("token lookup failed", logger.Err(err))
			httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "error"})
		}
		return nil, false
	}
	return rec, true
}

func (h *WellnessHandler) confirm(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.Records.UpsertCounter(r.Context(), rec.UserID, 0); err != nil {
		logger.From(r.Context()).Error("wellness reset failed", logger.UserID(rec.UserID), logger.Err(err))
		httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "error"})
		return
	}

	if err := h.Audit.Append(r.Context(), rec.UserID, repository.ActionInactivityReset, map[string]any{
		"source": "wellness_confirm",
	}); err != nil {
		logger.From(r.Context()).Warn("wellness audit failed", logger.UserID(rec.UserID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "ok"})
}

func (h *WellnessHandler) concern(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.lookup(w, r)
	if !ok {
		return
	}

	// Un contacto preocupado saltea el umbral: divulgación inmediata.
	if err := h.Disclosure.Trigger(r.Context(), rec.UserID); err != nil {
		logger.From(r.Context()).Error("concern disclosure failed", logger.UserID(rec.UserID), logger.Err(err))
		httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "error"})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, wellnessOut{Status: "ok"})
}
