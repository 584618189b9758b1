// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/email"
	"github.com/dropDatabas3/haven/internal/escalation"
	"github.com/dropDatabas3/haven/internal/http/handlers"
	mw "github.com/dropDatabas3/haven/internal/http/middlewares"
	"github.com/dropDatabas3/haven/internal/rate"
	"github.com/dropDatabas3/haven/internal/store"
)

// Deps contiene las dependencias del router.
type Deps struct {
	DAL        store.DataAccessLayer
	Auth       *auth.Service
	Audit      *audit.Service
	Email      *email.Service
	Disclosure *escalation.Disclosure

	// Limiter protege los endpoints públicos (verify/confirm/concern).
	// Opcional: nil desactiva el rate limiting.
	Limiter rate.Limiter

	// Registry para /metrics. Nil expone el registry default.
	Registry *prometheus.Registry

	CORSAllowedOrigins []string
}

// New construye el router completo con middlewares y todos los handlers
// registrados.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithRecover())
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(mw.WithCORS(deps.CORSAllowedOrigins))
	}

	authH := &handlers.AuthHandler{Auth: deps.Auth, Audit: deps.Audit}
	rulesH := &handlers.RulesHandler{Auth: deps.Auth, Rules: deps.DAL.Rules(), Audit: deps.Audit}
	inactH := &handlers.InactivityHandler{
		Auth:       deps.Auth,
		Records:    deps.DAL.Inactivity(),
		Audit:      deps.Audit,
		Disclosure: deps.Disclosure,
	}
	contactsH := &handlers.ContactsHandler{
		Auth:     deps.Auth,
		Contacts: deps.DAL.Contacts(),
		Users:    deps.DAL.Users(),
		Audit:    deps.Audit,
		Email:    deps.Email,
	}
	vaultH := &handlers.VaultHandler{Auth: deps.Auth, Vault: deps.DAL.Vault(), Audit: deps.Audit}
	auditH := &handlers.AuditLogHandler{Auth: deps.Auth, Audit: deps.Audit}
	wellnessH := &handlers.WellnessHandler{
		Records:    deps.DAL.Inactivity(),
		Audit:      deps.Audit,
		Disclosure: deps.Disclosure,
	}

	// Rutas autenticadas (el handler resuelve el bearer por su cuenta).
	authH.Register(r)
	rulesH.Register(r)
	inactH.Register(r)
	contactsH.Register(r)
	vaultH.Register(r)
	auditH.Register(r)

	// Rutas públicas token/email-gated, con rate limit por IP+path.
	r.Group(func(pub chi.Router) {
		pub.Use(mw.WithRateLimit(deps.Limiter, mw.IPPathRateKey))
		wellnessH.Register(pub)
		contactsH.RegisterPublic(pub)
	})

	r.Get("/readyz", handlers.NewReadyzHandler(deps.DAL))

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return r
}
