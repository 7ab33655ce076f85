package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/email"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/security/password"
	"github.com/dropDatabas3/frontdesk/internal/util"
)

const minPasswordLen = 8

type signupService struct {
	deps Deps
}

// NewSignupService crea el service de alta de tenants.
func NewSignupService(deps Deps) SignupService {
	return &signupService{deps: deps}
}

func (s *signupService) Signup(ctx context.Context, in dto.SignupRequest, userAgent, ip string) (*dto.SignupResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("Signup"),
	)

	// Paso 0: Normalización
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.OwnerEmail = strings.TrimSpace(strings.ToLower(in.OwnerEmail))
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.Timezone = strings.TrimSpace(in.Timezone)

	// Validación mínima
	if in.BusinessName == "" || in.OwnerEmail == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(in.OwnerEmail); err != nil {
		return nil, ErrMissingFields
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	// Paso 1: Hash de password (argon2id, jamás se persiste el plaintext)
	phc, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, err
	}

	// Paso 2: Alta atómica tenant + owner + trial. El slug se resuelve
	// adentro de la transacción, colisiones incluidas.
	tenant, owner, err := s.deps.Store.CreateTenantWithOwner(ctx, repository.CreateTenantInput{
		BusinessName: in.BusinessName,
		Timezone:     in.Timezone,
		Industry:     in.Industry,
		OwnerEmail:   in.OwnerEmail,
		PasswordHash: phc,
		OwnerName:    in.OwnerName,
		PlanCode:     s.deps.PlanCode,
		TrialDays:    s.deps.TrialDays,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			log.Info("signup rejected: duplicate email", logger.String("email", util.MaskEmail(in.OwnerEmail)))
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrBasePlanMissing):
			// precondición de deployment, no culpa del cliente
			log.Error("signup failed: base plan not seeded", logger.Err(err))
			return nil, ErrBasePlanMissing
		default:
			return nil, err
		}
	}

	log = log.With(logger.TenantID(tenant.ID), logger.TenantSlug(tenant.Slug), logger.UserID(owner.ID))

	// Paso 3: Primera sesión del owner
	pair, err := issueSession(ctx, s.deps, owner, userAgent, ip)
	if err != nil {
		return nil, err
	}

	// Paso 4: Bienvenida best-effort, nunca bloquea el alta
	if s.deps.Email != nil {
		go func(to, business, name string) {
			subject, html, text := email.ComposeWelcome(business, name, s.deps.TrialDays)
			if err := s.deps.Email.Send(to, subject, html, text); err != nil {
				logger.L().Warn("welcome email failed",
					logger.Component("auth.signup"), logger.Err(err))
			}
		}(owner.Email, tenant.BusinessName, owner.DisplayName)
	}

	log.Info("tenant signup completed")

	return &dto.SignupResponse{
		Tenant: tenantSummary(tenant),
		User:   userSummary(owner),
		Tokens: pair,
	}, nil
}
