// Package metrics define las métricas Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_login_attempts_total",
		Help: "Intentos de login por resultado (success|failure)",
	}, []string{"result"})

	RefreshRotations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_refresh_rotations_total",
		Help: "Rotaciones de refresh token por resultado (success|failure)",
	}, []string{"result"})

	OAuthCallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_oauth_callbacks_total",
		Help: "Callbacks OAuth de Square por resultado (success|client_error|upstream_error)",
	}, []string{"result"})

	TenantContextResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_tenant_context_resolutions_total",
		Help: "Resoluciones de tenant context por fuente (agent_auth|dashboard_auth|env_fallback)",
	}, []string{"source"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frontdesk_http_request_duration_seconds",
		Help:    "Duración de requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Register registra todas las métricas en el registry dado (o el default).
// Tolera doble registro para que los tests puedan llamar más de una vez.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginAttempts, RefreshRotations, OAuthCallbacks, TenantContextResolutions, HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
