package auth

import (
	"context"

	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

type profileService struct {
	deps Deps
}

// NewProfileService crea el service de perfil (/v1/me).
func NewProfileService(deps Deps) ProfileService {
	return &profileService{deps: deps}
}

func (s *profileService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.deps.Store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	tenant, err := s.deps.Store.GetTenant(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}

	// "Sin Square conectado" no es un error: credencial ausente o
	// indescifrable deja el flag en false y la causa en los logs.
	connected := false
	if s.deps.Vault != nil {
		cred, err := s.deps.Vault.LatestSquareCredential(ctx, tenant.ID)
		switch {
		case err != nil:
			logger.From(ctx).Warn("square credential check failed",
				logger.Component("auth.profile"), logger.TenantID(tenant.ID), logger.Err(err))
		case cred != nil:
			connected = true
		}
	}

	return &dto.MeResponse{
		Tenant:          tenantSummary(tenant),
		User:            userSummary(user),
		SquareConnected: connected,
	}, nil
}
