// Package types contiene las entidades del dominio.
package types

import "time"

// ─── Tenant ───

type TenantStatus string

const (
	TenantPending   TenantStatus = "pending"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

// Tenant es una cuenta de cliente del producto. Nunca se borra físicamente.
type Tenant struct {
	ID           string
	Slug         string
	BusinessName string
	Status       TenantStatus
	Timezone     string
	Industry     string
	QAStatus     string
	TrialEndsAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ─── TenantUser ───

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

// TenantUser es un usuario del dashboard. Exactamente una cuenta por email
// (case-insensitive, unicidad global).
type TenantUser struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Role         Role
	DisplayName  string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// ─── Session ───

// Session respalda un refresh token. Guarda sólo el hash del token; el
// plaintext se entrega una única vez al emitir.
type Session struct {
	ID          string
	UserID      string
	TenantID    string
	RefreshHash string
	UserAgent   string
	IP          string
	ExpiresAt   time.Time
	RevokedAt   *time.Time
	CreatedAt   time.Time
}

// Usable indica si la sesión puede consumirse: ni revocada ni expirada.
func (s *Session) Usable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// ─── SquareCredential ───

type SquareEnvironment string

const (
	SquareSandbox    SquareEnvironment = "sandbox"
	SquareProduction SquareEnvironment = "production"
)

// SquareCredential guarda los tokens OAuth de Square de un tenant.
// AccessTokenEnc/RefreshTokenEnc están SIEMPRE cifrados (secretbox); se
// descifran bajo demanda y jamás se loguean.
type SquareCredential struct {
	TenantID             string
	AgentID              *string
	MerchantID           string
	DefaultLocationID    string
	Environment          SquareEnvironment
	SupportsSellerWrites bool
	AccessTokenEnc       string
	RefreshTokenEnc      string
	ExpiresAt            *time.Time
	Scopes               []string
	LastRefreshedAt      time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ─── Agent ───

// Agent es un agente de voz entrante vinculado a un tenant. Su bearer token
// de autenticación se persiste cifrado; para el lookup se guarda además un
// hash del token.
type Agent struct {
	ID             string
	TenantID       string
	RetellAgentID  string
	DisplayName    string
	BearerTokenEnc string
	BearerHash     string
	CreatedAt      time.Time
}

// ─── Plan / Subscription (colaboradores del signup) ───

// Plan es un plan de facturación pre-sembrado. El plan base es una
// precondición de deployment del signup.
type Plan struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}

type SubscriptionStatus string

const (
	SubscriptionTrial  SubscriptionStatus = "trial"
	SubscriptionActive SubscriptionStatus = "active"
)

type Subscription struct {
	ID          string
	TenantID    string
	PlanID      string
	Status      SubscriptionStatus
	TrialEndsAt time.Time
	CreatedAt   time.Time
}
