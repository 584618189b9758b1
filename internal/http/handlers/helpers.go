package handlers

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	httpx "github.com/dropDatabas3/haven/internal/http"
)

// currentUser resuelve el usuario autenticado del request o responde 401.
func currentUser(w http.ResponseWriter, r *http.Request, p auth.CurrentUserProvider) (*repository.User, bool) {
	u, err := p.CurrentUser(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "token inválido o ausente")
		return nil, false
	}
	return u, true
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func toUserDTO(u *repository.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}
