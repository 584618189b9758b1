package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// AuthHandler expone signup y login.
//
// El login cuenta como prueba de vida: la entrada de auditoría que escribe
// resetea el contador de inactividad del usuario.
type AuthHandler struct {
	Auth  *auth.Service
	Audit *audit.Service
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/v1/auth/signup", h.signup)
	r.Post("/v1/auth/login", h.login)
}

type signupIn struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type sessionOut struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var in signupIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}

	user, token, err := h.Auth.Signup(r.Context(), in.Email, in.Name, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
		case repository.IsConflict(err):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "el email ya está registrado")
		default:
			logger.From(r.Context()).Error("signup failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo crear el usuario")
		}
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionUserSignedUp, nil); err != nil {
		logger.From(r.Context()).Warn("signup audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionOut{Token: token, User: toUserDTO(user)})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}

	user, token, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if repository.IsUnauthorized(err) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email o password incorrectos")
			return
		}
		logger.From(r.Context()).Error("login failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo iniciar sesión")
		return
	}

	// Prueba de vida: Append resetea last_checked_at a 0.
	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionUserLoggedIn, nil); err != nil {
		logger.From(r.Context()).Warn("login audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, sessionOut{Token: token, User: toUserDTO(user)})
}
