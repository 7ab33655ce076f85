// Package repository define los contratos de persistencia del dominio.
// internal/store/pg los implementa contra Postgres; los tests de services
// usan fakes en memoria.
package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

// CreateTenantInput agrupa los datos del signup. El slug se resuelve adentro
// de la transacción (colisiones incluidas).
type CreateTenantInput struct {
	BusinessName string
	Timezone     string
	Industry     string
	OwnerEmail   string
	PasswordHash string
	OwnerName    string
	PlanCode     string
	TrialDays    int
}

// Tenants administra tenants y el alta atómica tenant+owner+trial.
type Tenants interface {
	// CreateTenantWithOwner ejecuta en UNA transacción: slug único, tenant
	// (status=pending), usuario owner y suscripción trial contra el plan base.
	// Si el plan base no existe devuelve ErrBasePlanMissing (precondición de
	// deployment). Si el email ya existe devuelve ErrDuplicateEmail sin
	// escribir ninguna fila.
	CreateTenantWithOwner(ctx context.Context, in CreateTenantInput) (*types.Tenant, *types.TenantUser, error)

	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error)
}

// Users resuelve usuarios del dashboard.
type Users interface {
	// GetUserByEmail busca case-insensitive. ErrNotFound si no existe.
	GetUserByEmail(ctx context.Context, email string) (*types.TenantUser, error)
	GetUserByID(ctx context.Context, id string) (*types.TenantUser, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// CreateSessionInput son los datos de una sesión nueva.
type CreateSessionInput struct {
	ID          string
	UserID      string
	TenantID    string
	RefreshHash string
	UserAgent   string
	IP          string
	ExpiresAt   time.Time
}

// Sessions administra filas de sesión (refresh tokens).
type Sessions interface {
	CreateSession(ctx context.Context, in CreateSessionInput) error
	GetSession(ctx context.Context, id string) (*types.Session, error)

	// ConsumeSession revoca condicionalmente (revoked_at IS NULL). Ante dos
	// refresh concurrentes con el mismo token, exactamente uno recibe nil y
	// el otro ErrAlreadyRevoked: la carrera se decide acá, no con locks de
	// aplicación.
	ConsumeSession(ctx context.Context, id string) error

	// RevokeSession es idempotente: revocar una sesión ya revocada no es error.
	RevokeSession(ctx context.Context, id string) error
	RevokeAllSessions(ctx context.Context, userID string) (int64, error)
}

// Credentials custodia las credenciales Square cifradas.
type Credentials interface {
	// UpsertSquareCredential inserta o actualiza por (tenant, merchant).
	// Los tokens del input ya vienen cifrados (el vault cifra antes de llamar).
	UpsertSquareCredential(ctx context.Context, cred *types.SquareCredential) error

	// LatestSquareCredential devuelve la credencial más reciente del tenant,
	// o ErrNotFound si el tenant nunca conectó Square.
	LatestSquareCredential(ctx context.Context, tenantID string) (*types.SquareCredential, error)
}

// Agents resuelve agentes de voz y sus bearer tokens.
type Agents interface {
	GetAgentByRetellID(ctx context.Context, retellAgentID string) (*types.Agent, error)
	GetAgentByBearerHash(ctx context.Context, hash string) (*types.Agent, error)
	// StoreAgentBearerToken persiste el token cifrado + su hash de lookup.
	StoreAgentBearerToken(ctx context.Context, agentID, tokenEnc, tokenHash string) error
	CreateAgent(ctx context.Context, a *types.Agent) error
}

// Plans lee planes pre-sembrados.
type Plans interface {
	GetPlanByCode(ctx context.Context, code string) (*types.Plan, error)
	SeedPlan(ctx context.Context, code, name string) (*types.Plan, error)
}

// Store agrupa todos los repositorios. internal/store/pg.Store lo implementa.
type Store interface {
	Tenants
	Users
	Sessions
	Credentials
	Agents
	Plans

	Ping(ctx context.Context) error
	Close()
}
