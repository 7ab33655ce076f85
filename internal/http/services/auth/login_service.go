package auth

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/audit"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	"github.com/dropDatabas3/frontdesk/internal/metrics"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/security/password"
	"github.com/dropDatabas3/frontdesk/internal/util"
)

type loginService struct {
	deps Deps
}

// dummyHash se verifica (y descarta) en la rama de email desconocido
// para que esa rama cueste lo mismo que una password incorrecta.
var dummyHash = func() string {
	h, err := password.Hash(password.Default, "dummy-timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()

// NewLoginService crea el service de login del dashboard.
func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

// LoginPassword autentica email + password. Toda falla de autenticación
// devuelve el MISMO ErrInvalidCredentials: email desconocido, password
// incorrecta y cuenta desactivada son indistinguibles desde afuera. La
// causa precisa queda en los logs para operación.
func (s *loginService) LoginPassword(ctx context.Context, in dto.LoginRequest, userAgent, ip string) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("LoginPassword"),
	)

	// Paso 0: Normalización
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	// Paso 1: Buscar usuario (case-insensitive) y verificar password
	user, err := s.deps.Store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		password.Verify(in.Password, dummyHash)
		log.Info("login failed: user not found", logger.String("email", util.MaskEmail(in.Email)))
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	log = log.With(logger.UserID(user.ID), logger.TenantID(user.TenantID))

	if !user.Active {
		log.Info("login failed: user inactive")
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(in.Password, user.PasswordHash) {
		log.Info("login failed: wrong password")
		audit.Record(ctx, audit.EventLoginFailed,
			logger.UserID(user.ID), logger.ClientIP(ip))
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	// Paso 2: Resolver tenant del usuario
	tenant, err := s.deps.Store.GetTenant(ctx, user.TenantID)
	if err != nil {
		log.Error("login failed: tenant missing for user", logger.Err(err))
		return nil, err
	}

	// Paso 3: Sesión nueva
	pair, err := issueSession(ctx, s.deps, user, userAgent, ip)
	if err != nil {
		return nil, err
	}

	// last_login best-effort
	if err := s.deps.Store.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		log.Debug("touch last_login failed", logger.Err(err))
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info("login ok")

	return &dto.LoginResponse{
		Tenant: tenantSummary(tenant),
		User:   userSummary(user),
		Tokens: pair,
	}, nil
}
