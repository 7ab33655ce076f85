// Package agent expone las rutas autenticadas por bearer de agente.
package agent

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/agent"
	apperrors "github.com/dropDatabas3/frontdesk/internal/http/errors"
	"github.com/dropDatabas3/frontdesk/internal/http/helpers"
	"github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	"github.com/dropDatabas3/frontdesk/internal/tenantctx"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

type Deps struct {
	Vault *vault.Vault
}

type Controllers struct {
	deps Deps
}

func New(deps Deps) *Controllers { return &Controllers{deps: deps} }

// Context maneja GET /v1/agent/context: devuelve el tenant context que
// el resolver armó para este agente, sin secretos. El booking layer usa
// esto para saber contra qué tenant/location operar.
func (c *Controllers) Context(w http.ResponseWriter, r *http.Request) {
	tc := tenantctx.From(r.Context())
	if tc == nil || tc.TenantID == "" {
		apperrors.WriteError(w, apperrors.ErrTenantNotFound)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ContextResponse{
		Source:          string(tc.Source),
		TenantID:        tc.TenantID,
		TenantSlug:      tc.TenantSlug,
		BusinessName:    tc.BusinessName,
		Timezone:        tc.Timezone,
		AgentID:         tc.AgentID,
		SquareConnected: tc.HasSquare(),
		LocationID:      tc.SquareLocationID,
		Environment:     tc.SquareEnvironment,
		SellerWrites:    tc.SupportsSellerLevelWrites,
	})
}

// ContextByRetellID maneja GET /v1/agent/context/{retellAgentID}: lookup
// fresco por id externo de Retell contra el store. El bearer autenticado
// sólo puede pedir su propio id; cualquier otro devuelve 404 sin
// distinguir "ajeno" de "inexistente".
func (c *Controllers) ContextByRetellID(w http.ResponseWriter, r *http.Request) {
	retellID := chi.URLParam(r, "retellAgentID")
	caller := middlewares.GetAgent(r.Context())
	if caller == nil || retellID == "" || caller.RetellAgentID != retellID {
		apperrors.WriteError(w, apperrors.ErrNotFound)
		return
	}

	agent, cred, err := c.deps.Vault.AgentContextByRetellID(r.Context(), retellID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apperrors.WriteError(w, apperrors.ErrNotFound)
			return
		}
		apperrors.WriteError(w, err)
		return
	}

	resp := dto.ContextResponse{
		Source:          string(tenantctx.SourceAgentAuth),
		TenantID:        agent.TenantID,
		AgentID:         agent.RetellAgentID,
		SquareConnected: cred != nil,
	}
	if tc := tenantctx.From(r.Context()); tc != nil {
		resp.TenantSlug = tc.TenantSlug
		resp.BusinessName = tc.BusinessName
		resp.Timezone = tc.Timezone
	}
	if cred != nil {
		resp.LocationID = cred.DefaultLocationID
		resp.Environment = string(cred.Environment)
		resp.SellerWrites = cred.SupportsSellerWrites
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
