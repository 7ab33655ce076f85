// Package auth implementa los services del flujo de autenticación:
// signup, login, rotación de refresh tokens y logout.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	"github.com/dropDatabas3/frontdesk/internal/email"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
	tokens "github.com/dropDatabas3/frontdesk/internal/security/token"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

// Errores de los services de auth. Los controllers los traducen a la
// taxonomía HTTP; ninguno filtra cuál factor falló.
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrWeakPassword       = fmt.Errorf("password too weak")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidRefresh     = fmt.Errorf("invalid refresh token")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrBasePlanMissing    = fmt.Errorf("base plan not seeded")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrTokenIssueFailed   = fmt.Errorf("failed to issue token")
)

// Deps contiene las dependencias compartidas por los services de auth.
type Deps struct {
	Store  repository.Store
	Issuer *jwtx.Issuer
	Vault  *vault.Vault
	Email  email.Sender // nil = sin correos

	TrialDays int
	PlanCode  string
}

// SignupService da de alta negocio + owner y abre la primera sesión.
type SignupService interface {
	Signup(ctx context.Context, in dto.SignupRequest, userAgent, ip string) (*dto.SignupResponse, error)
}

// LoginService autentica usuarios del dashboard por email/password.
type LoginService interface {
	LoginPassword(ctx context.Context, in dto.LoginRequest, userAgent, ip string) (*dto.LoginResponse, error)
}

// RefreshService rota y revoca sesiones.
type RefreshService interface {
	Rotate(ctx context.Context, refreshToken, userAgent, ip string) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) (int64, error)
}

// ProfileService arma la vista /v1/me.
type ProfileService interface {
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
}

// Services agrupa todos los services de auth ya construidos.
type Services struct {
	Signup  SignupService
	Login   LoginService
	Refresh RefreshService
	Profile ProfileService
}

// NewServices construye el set completo sobre unas mismas deps.
func NewServices(deps Deps) *Services {
	return &Services{
		Signup:  NewSignupService(deps),
		Login:   NewLoginService(deps),
		Refresh: NewRefreshService(deps),
		Profile: NewProfileService(deps),
	}
}

// issueSession crea la fila de sesión y emite el par de tokens. El
// refresh es un JWT firmado cuyo hash queda en la fila: la firma es
// necesaria pero no suficiente, la fila decide revocación y expiración.
func issueSession(ctx context.Context, deps Deps, user *types.TenantUser, userAgent, ip string) (dto.TokenPair, error) {
	sessionID := uuid.NewString()

	refresh, refreshExp, err := deps.Issuer.IssueRefresh(user.ID, user.TenantID, sessionID)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
	}

	if err := deps.Store.CreateSession(ctx, repository.CreateSessionInput{
		ID:          sessionID,
		UserID:      user.ID,
		TenantID:    user.TenantID,
		RefreshHash: hashRefresh(refresh),
		UserAgent:   userAgent,
		IP:          ip,
		ExpiresAt:   refreshExp,
	}); err != nil {
		return dto.TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	access, accessExp, err := deps.Issuer.IssueAccess(user.ID, user.TenantID, string(user.Role))
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
	}

	return dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    accessExp,
	}, nil
}

func tenantSummary(t *types.Tenant) dto.TenantSummary {
	return dto.TenantSummary{
		ID:           t.ID,
		Slug:         t.Slug,
		BusinessName: t.BusinessName,
		Status:       string(t.Status),
		Timezone:     t.Timezone,
		TrialEndsAt:  t.TrialEndsAt,
	}
}

func userSummary(u *types.TenantUser) dto.UserSummary {
	return dto.UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		Role:        string(u.Role),
		DisplayName: u.DisplayName,
	}
}

// hashRefresh produce el hash de lookup/compare del refresh token.
func hashRefresh(refreshToken string) string {
	return tokens.SHA256Base64URL(refreshToken)
}
