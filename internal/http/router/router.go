// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	agentctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/agent"
	authctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/health"
	oauthctrl "github.com/dropDatabas3/frontdesk/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
	"github.com/dropDatabas3/frontdesk/internal/rate"
)

// Deps contiene todo lo que el router necesita ya construido.
type Deps struct {
	Auth   *authctrl.Controllers
	OAuth  *oauthctrl.Controllers
	Agent  *agentctrl.Controllers
	Health *healthctrl.Controllers

	Issuer *jwtx.Issuer

	// LoginLimiter protege login/signup/refresh de fuerza bruta.
	// nil = sin rate limiting (tests, dev).
	LoginLimiter rate.Limiter

	// TenantResolver corre en las rutas autenticadas del dashboard.
	TenantResolver mw.Middleware

	// AgentAuth autentica bearers de agentes (nivel de confianza más
	// alto del resolver). nil = rutas de agente apagadas.
	AgentAuth mw.Middleware
}

// New construye el http.Handler completo con la cadena de middlewares
// global: recover, request-id, security headers y logging en ese orden.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Salud y métricas: sin auth, sin rate limit
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Flujo de autenticación: público, con no-store y rate limit
	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		if deps.LoginLimiter != nil {
			r.Use(mw.WithRateLimit(deps.LoginLimiter, mw.IPPathKey))
		}

		r.Post("/signup", deps.Auth.Signup)
		r.Post("/login", deps.Auth.Login)
		r.Post("/refresh", deps.Auth.Refresh)
		// logout acepta all=true si además viene un access token
		r.With(mw.WithOptionalAuth(deps.Issuer)).Post("/logout", deps.Auth.Logout)

		// logout-all necesita un access token válido
		r.With(mw.RequireAuth(deps.Issuer)).Post("/logout-all", deps.Auth.LogoutAll)
	})

	// Rutas autenticadas del dashboard
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.RequireAuth(deps.Issuer))
		if deps.TenantResolver != nil {
			r.Use(deps.TenantResolver)
		}
		r.Get("/me", deps.Auth.Me)
	})

	// Rutas del voice agent: bearer de agente, no JWT de dashboard
	if deps.AgentAuth != nil && deps.Agent != nil {
		r.Route("/v1/agent", func(r chi.Router) {
			r.Use(mw.WithNoStore())
			r.Use(deps.AgentAuth)
			if deps.TenantResolver != nil {
				r.Use(deps.TenantResolver)
			}
			r.Get("/context", deps.Agent.Context)
			r.Get("/context/{retellAgentID}", deps.Agent.ContextByRetellID)
		})
	}

	// Callback OAuth de Square: llega el browser del seller, sin auth
	r.Route("/oauth", func(r chi.Router) {
		r.Use(mw.WithNoStore())
		r.Get("/square/callback", deps.OAuth.SquareCallback)
	})

	return mw.Chain(r,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithLogging(),
	)
}
