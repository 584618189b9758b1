package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	"github.com/dropDatabas3/haven/internal/email"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// ContactsHandler expone el CRUD de contactos de confianza y la
// verificación pública por link de email.
type ContactsHandler struct {
	Auth     auth.CurrentUserProvider
	Contacts repository.ContactRepository
	Users    repository.UserRepository
	Audit    *audit.Service
	Email    *email.Service
}

func (h *ContactsHandler) Register(r chi.Router) {
	r.Get("/v1/contacts", h.list)
	r.Post("/v1/contacts", h.add)
	r.Delete("/v1/contacts", h.remove)
	r.Post("/v1/contacts/resend", h.resend)
}

// RegisterPublic registra la verificación anónima. Va aparte para que el
// router le pueda colgar rate limiting sin tocar las rutas autenticadas.
func (h *ContactsHandler) RegisterPublic(r chi.Router) {
	r.Post("/v1/contacts/verify", h.verify)
}

type contactDTO struct {
	ID                 string    `json:"id"`
	ContactEmail       string    `json:"contactEmail"`
	VerificationStatus string    `json:"verificationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toContactDTO(c *repository.TrustedContact) contactDTO {
	return contactDTO{
		ID:                 c.ID,
		ContactEmail:       c.ContactEmail,
		VerificationStatus: string(c.VerificationStatus),
		CreatedAt:          c.CreatedAt,
	}
}

func (h *ContactsHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	contacts, err := h.Contacts.ListByUser(r.Context(), user.ID)
	if err != nil {
		logger.From(r.Context()).Error("list contacts failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudieron listar los contactos")
		return
	}

	out := make([]contactDTO, 0, len(contacts))
	for i := range contacts {
		out = append(out, toContactDTO(&contacts[i]))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"contacts": out})
}

type contactEmailIn struct {
	Email string `json:"email"`
}

func (h *ContactsHandler) add(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	var in contactEmailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	addr := normalizeEmail(in.Email)
	if addr == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "falta el email del contacto")
		return
	}

	contact, err := h.Contacts.Insert(r.Context(), user.ID, addr)
	if err != nil {
		logger.From(r.Context()).Error("add contact failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo agregar el contacto")
		return
	}

	// El mail de invitación es best-effort: el contacto queda pending y el
	// usuario puede reenviar desde /v1/contacts/resend.
	if err := h.Email.SendContactVerification(user, addr, false); err != nil {
		logger.From(r.Context()).Warn("contact invite send failed",
			logger.UserID(user.ID), logger.Email(addr), logger.Err(err))
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionContactAdded, map[string]any{
		"contactEmail": addr,
	}); err != nil {
		logger.From(r.Context()).Warn("contact audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusCreated, toContactDTO(contact))
}

func (h *ContactsHandler) remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	var in contactEmailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	addr := normalizeEmail(in.Email)
	if addr == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "falta el email del contacto")
		return
	}

	if err := h.Contacts.DeleteByEmail(r.Context(), user.ID, addr); err != nil {
		if repository.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "el contacto no existe")
			return
		}
		logger.From(r.Context()).Error("delete contact failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo eliminar el contacto")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionContactDeleted, map[string]any{
		"contactEmail": addr,
	}); err != nil {
		logger.From(r.Context()).Warn("contact audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ContactsHandler) resend(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	var in contactEmailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	addr := normalizeEmail(in.Email)
	if addr == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "falta el email del contacto")
		return
	}

	contacts, err := h.Contacts.ListByUser(r.Context(), user.ID)
	if err != nil {
		logger.From(r.Context()).Error("list contacts failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo reenviar la invitación")
		return
	}
	found := false
	for i := range contacts {
		if contacts[i].ContactEmail == addr {
			found = true
			break
		}
	}
	if !found {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "el contacto no existe")
		return
	}

	if err := h.Email.SendContactVerification(user, addr, true); err != nil {
		logger.From(r.Context()).Error("contact resend failed",
			logger.UserID(user.ID), logger.Email(addr), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "send_failed", "no se pudo enviar el mail")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionContactResent, map[string]any{
		"contactEmail": addr,
	}); err != nil {
		logger.From(r.Context()).Warn("contact audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type verifyOut struct {
	Success bool `json:"success"`
}

// verify es el endpoint anónimo del link de verificación. Nunca filtra
// errores internos al visitante: cualquier falla resuelve a success=false.
func (h *ContactsHandler) verify(w http.ResponseWriter, r *http.Request) {
	var in contactEmailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	addr := normalizeEmail(in.Email)
	if addr == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing_email", "falta el email a verificar")
		return
	}

	contact, err := h.Contacts.FindByEmail(r.Context(), addr)
	if err != nil {
		if !repository.IsNotFound(err) {
			logger.From(r.Context()).Error("contact lookup failed", logger.Email(addr), logger.Err(err))
		}
		httpx.WriteJSON(w, http.StatusOK, verifyOut{Success: false})
		return
	}

	if err := h.Contacts.SetVerified(r.Context(), contact.ID); err != nil {
		logger.From(r.Context()).Error("contact verify failed", logger.ContactID(contact.ID), logger.Err(err))
		httpx.WriteJSON(w, http.StatusOK, verifyOut{Success: false})
		return
	}

	if err := h.Audit.Append(r.Context(), contact.UserID, repository.ActionContactVerified, map[string]any{
		"contactEmail": addr,
	}); err != nil {
		logger.From(r.Context()).Warn("contact audit failed", logger.UserID(contact.UserID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, verifyOut{Success: true})
}
