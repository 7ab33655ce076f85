package middlewares

import (
	"context"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/metrics"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/tenantctx"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

// TenantResolverDeps son las dependencias del resolver de tenant context.
type TenantResolverDeps struct {
	Store repository.Store
	Vault *vault.Vault

	// FallbackTenantID habilita el fallback por variable de entorno.
	// Conveniencia de desarrollo: inalcanzable en un deployment
	// multi-tenant bien configurado, y logueado cuando se usa.
	FallbackTenantID string

	// CacheTTL acota el round-trip a DB por request. Default 30s.
	CacheTTL time.Duration
}

// WithTenantContext resuelve el tenant context del request en orden de
// prioridad: agente autenticado, sesión de dashboard, fallback de entorno.
// Ante cualquier fallo inesperado adjunta igual un contexto mínimo sin
// secretos y deja pasar el request: disponibilidad antes que fail-closed.
func WithTenantContext(deps TenantResolverDeps) Middleware {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	cache := gocache.New(ttl, 2*ttl)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			tc := resolve(ctx, deps, cache)
			metrics.TenantContextResolutions.WithLabelValues(string(tc.Source)).Inc()
			next.ServeHTTP(w, r.WithContext(tenantctx.With(ctx, tc)))
		})
	}
}

func resolve(ctx context.Context, deps TenantResolverDeps, cache *gocache.Cache) *tenantctx.Context {
	log := logger.From(ctx).With(logger.Component("tenantctx"), logger.Op("resolve"))

	// 1. Agente entrante ya autenticado (mayor confianza)
	if agent := GetAgent(ctx); agent != nil {
		tc, err := buildTenantContext(ctx, deps, cache, agent.TenantID)
		if err == nil {
			tc.Source = tenantctx.SourceAgentAuth
			tc.AgentID = agent.ID
			return tc
		}
		log.Warn("agent tenant resolution failed", logger.AgentID(agent.ID), logger.Err(err))
		return &tenantctx.Context{Source: tenantctx.SourceFallback, AgentID: agent.ID, TenantID: agent.TenantID}
	}

	// 2. Sesión de dashboard (access token verificado)
	if claims := GetClaims(ctx); claims != nil && claims.TenantID != "" {
		tc, err := buildTenantContext(ctx, deps, cache, claims.TenantID)
		if err == nil {
			tc.Source = tenantctx.SourceDashboardAuth
			return tc
		}
		log.Warn("dashboard tenant resolution failed", logger.TenantID(claims.TenantID), logger.Err(err))
		return &tenantctx.Context{Source: tenantctx.SourceFallback, TenantID: claims.TenantID}
	}

	// 3. Fallback por variable de entorno (sólo dev)
	if deps.FallbackTenantID != "" {
		tc, err := buildTenantContext(ctx, deps, cache, deps.FallbackTenantID)
		if err == nil {
			tc.Source = tenantctx.SourceEnvFallback
			log.Warn("tenant context resolved from environment fallback",
				logger.TenantID(deps.FallbackTenantID))
			return tc
		}
		log.Warn("env fallback tenant resolution failed", logger.Err(err))
	}

	// Contexto mínimo sin secretos: el request sigue.
	return &tenantctx.Context{Source: tenantctx.SourceFallback}
}

// buildTenantContext carga tenant + credencial Square (descifrada) con
// cache corto. Una credencial indescifrable o ausente deja el contexto
// sin Square, nunca aborta la resolución.
func buildTenantContext(ctx context.Context, deps TenantResolverDeps, cache *gocache.Cache, tenantID string) (*tenantctx.Context, error) {
	if v, ok := cache.Get(tenantID); ok {
		cached := v.(tenantctx.Context)
		clone := cached
		return &clone, nil
	}

	tenant, err := deps.Store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	tc := &tenantctx.Context{
		TenantID:     tenant.ID,
		TenantSlug:   tenant.Slug,
		BusinessName: tenant.BusinessName,
		Timezone:     tenant.Timezone,
	}

	cred, err := deps.Vault.LatestSquareCredential(ctx, tenantID)
	switch {
	case err != nil:
		// descifrado roto o DB caída: contexto sin Square, causa al log
		logger.From(ctx).Warn("square credential unavailable",
			logger.Component("tenantctx"), logger.TenantID(tenantID), logger.Err(err))
	case cred != nil:
		tc.SquareAccessToken = cred.AccessToken
		tc.SquareLocationID = cred.DefaultLocationID
		tc.SquareEnvironment = string(cred.Environment)
		tc.SupportsSellerLevelWrites = cred.SupportsSellerWrites
	}

	cache.SetDefault(tenantID, *tc)
	clone := *tc
	return &clone, nil
}
