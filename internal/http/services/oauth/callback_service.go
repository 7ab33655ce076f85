// Package oauth implementa el completado del flujo OAuth con Square:
// decodificación defensiva del state, canje del authorization code y
// custodia cifrada de los tokens resultantes.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/frontdesk/internal/audit"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/oauth"
	"github.com/dropDatabas3/frontdesk/internal/metrics"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/square"
	"github.com/dropDatabas3/frontdesk/internal/validation"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

// Errores del callback. El controller los traduce: ErrClient → 4xx,
// ErrUpstream → 502. Ninguno lleva tokens ni secretos en el mensaje.
var (
	ErrClient   = fmt.Errorf("oauth callback client error")
	ErrUpstream = fmt.Errorf("oauth upstream error")
)

// CallbackDeps son las dependencias del service de callback.
type CallbackDeps struct {
	Square *square.Client
	Vault  *vault.Vault

	// Environment por defecto del deployment: sandbox | production.
	Environment string

	// DefaultTenantID se usa cuando el state no trae tenant (dev o
	// flujos iniciados fuera del dashboard).
	DefaultTenantID string
}

// CallbackService completa el intercambio de código por credenciales.
type CallbackService interface {
	Complete(ctx context.Context, code, state, providerError string) (*dto.CallbackResult, error)
}

type callbackService struct {
	deps CallbackDeps
}

// NewCallbackService crea el service del callback de Square.
func NewCallbackService(deps CallbackDeps) CallbackService {
	return &callbackService{deps: deps}
}

// Complete procesa GET /oauth/square/callback. El state es input del
// atacante: decodificado a lo sumo orienta (tenant destino), nunca
// autentica. Un code malo es error del cliente (reintenta el flujo);
// un proveedor caído es upstream. La metadata del seller es best-effort
// y su ausencia no aborta el completado.
func (s *callbackService) Complete(ctx context.Context, code, state, providerError string) (*dto.CallbackResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("oauth.callback"),
		logger.Op("Complete"),
	)

	if providerError != "" {
		log.Info("provider returned error", logger.String("provider_error", providerError))
		metrics.OAuthCallbacks.WithLabelValues("client_error").Inc()
		return nil, fmt.Errorf("%w: provider says %s", ErrClient, providerError)
	}
	if strings.TrimSpace(code) == "" {
		metrics.OAuthCallbacks.WithLabelValues("client_error").Inc()
		return nil, fmt.Errorf("%w: missing code", ErrClient)
	}

	// Paso 1: State defensivo. Nunca falla; Decoded=false es sólo
	// "no sabemos a qué tenant iba esto".
	st := square.DecodeState(state)
	tenantID := st.TenantID
	if tenantID == "" {
		tenantID = s.deps.DefaultTenantID
	}

	environment := s.deps.Environment
	if st.Environment != "" {
		environment = st.Environment
	}

	// Paso 2: Canje del code. Sin retry: los codes son de un solo uso
	// y de vida corta, reintentarlos no tiene sentido.
	tr, err := s.deps.Square.ExchangeCode(ctx, code, environment)
	if err != nil {
		if errors.Is(err, square.ErrCodeExchange) {
			log.Info("code exchange rejected", logger.Err(err))
			metrics.OAuthCallbacks.WithLabelValues("client_error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrClient, err)
		}
		log.Error("code exchange upstream failure", logger.Err(err))
		metrics.OAuthCallbacks.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	log = log.With(logger.MerchantID(tr.MerchantID))

	scopes := validation.FilterSquareScopes(tr.Scopes)
	if len(scopes) != len(tr.Scopes) {
		log.Warn("dropped malformed scopes from token response",
			logger.Int("received", len(tr.Scopes)), logger.Int("kept", len(scopes)))
	}

	// Paso 3: Enriquecimiento best-effort. El nombre del negocio sale
	// de la API de Square; el del state es sólo un fallback de display.
	md := s.deps.Square.FetchSellerMetadata(ctx, tr.AccessToken, environment)
	businessName := md.BusinessName
	if businessName == "" {
		businessName = st.BusinessName
	}

	result := &dto.CallbackResult{
		Connected:    true,
		TenantID:     tenantID,
		MerchantID:   tr.MerchantID,
		BusinessName: businessName,
		LocationID:   md.DefaultLocationID,
		Environment:  environment,
		Scopes:       scopes,
		ExpiresAt:    tr.Expiry(),
		SellerTier:   sellerTier(md.SellerWritable),
	}

	// Paso 4: Custodia. Sin tenant destino no hay dónde guardar: el
	// flujo completa igual (el merchant ya autorizó) pero sin persistir.
	if tenantID == "" {
		log.Warn("oauth completed without tenant, credentials not persisted")
		metrics.OAuthCallbacks.WithLabelValues("success").Inc()
		return result, nil
	}

	var agentID *string
	if st.AgentID != "" {
		agentID = &st.AgentID
	}

	if err := s.deps.Vault.StoreSquareCredentials(ctx, vault.StoreSquareInput{
		TenantID:             tenantID,
		AgentID:              agentID,
		MerchantID:           tr.MerchantID,
		DefaultLocationID:    md.DefaultLocationID,
		Environment:          types.SquareEnvironment(environment),
		SupportsSellerWrites: md.SellerWritable,
		AccessToken:          tr.AccessToken,
		RefreshToken:         tr.RefreshToken,
		ExpiresAt:            tr.Expiry(),
		Scopes:               scopes,
	}); err != nil {
		log.Error("credential persist failed", logger.TenantID(tenantID), logger.Err(err))
		metrics.OAuthCallbacks.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	result.Persisted = true
	metrics.OAuthCallbacks.WithLabelValues("success").Inc()
	audit.Record(ctx, audit.EventSquareConnected,
		logger.TenantID(tenantID),
		logger.MerchantID(tr.MerchantID),
		logger.String("environment", environment),
	)
	log.Info("square connected", logger.TenantID(tenantID))
	return result, nil
}

// sellerTier aproxima el plan del seller a partir de la capacidad de
// escritura seller-level del booking profile.
func sellerTier(sellerWritable bool) string {
	if sellerWritable {
		return "APPOINTMENTS_PLUS"
	}
	return "APPOINTMENTS_FREE"
}
