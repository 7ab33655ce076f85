package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	tokens "github.com/dropDatabas3/frontdesk/internal/security/token"
	"github.com/dropDatabas3/frontdesk/internal/util"
)

const tenantCols = `id, slug, business_name, status, timezone, industry, qa_status, trial_ends_at, created_at, updated_at`

func scanTenant(row pgx.Row) (*types.Tenant, error) {
	var t types.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.BusinessName, &t.Status, &t.Timezone,
		&t.Industry, &t.QAStatus, &t.TrialEndsAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	const q = `SELECT ` + tenantCols + ` FROM tenants WHERE id = $1`
	return scanTenant(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	const q = `SELECT ` + tenantCols + ` FROM tenants WHERE slug = $1`
	return scanTenant(s.pool.QueryRow(ctx, q, slug))
}

// CreateTenantWithOwner: ver contrato en repository.Tenants. Todo pasa o todo
// falla — un tenant a medio crear nunca debe ser observable.
func (s *Store) CreateTenantWithOwner(ctx context.Context, in repository.CreateTenantInput) (*types.Tenant, *types.TenantUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.OwnerEmail))

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// (a) email único ANTES de escribir nada (unicidad case-insensitive;
	// el índice único sobre LOWER(email) es la garantía final).
	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tenant_users WHERE LOWER(email) = $1)`, email,
	).Scan(&exists); err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, repository.ErrDuplicateEmail
	}

	// (b) plan base: precondición de deployment, no un error recuperable.
	var planID string
	err = tx.QueryRow(ctx, `SELECT id FROM plans WHERE code = $1`, in.PlanCode).Scan(&planID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, repository.ErrBasePlanMissing
		}
		return nil, nil, err
	}

	// (c) slug único dentro de la transacción.
	slug, err := resolveSlug(ctx, tx, in.BusinessName)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	trialEnd := now.AddDate(0, 0, in.TrialDays)

	tenant := &types.Tenant{
		ID:           uuid.NewString(),
		Slug:         slug,
		BusinessName: in.BusinessName,
		Status:       types.TenantPending,
		Timezone:     in.Timezone,
		Industry:     in.Industry,
		TrialEndsAt:  &trialEnd,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO tenants (id, slug, business_name, status, timezone, industry, qa_status, trial_ends_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,'',$7,$8,$8)`,
		tenant.ID, tenant.Slug, tenant.BusinessName, tenant.Status, tenant.Timezone,
		tenant.Industry, trialEnd, now)
	if err != nil {
		return nil, nil, err
	}

	user := &types.TenantUser{
		ID:           uuid.NewString(),
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: in.PasswordHash,
		Role:         types.RoleOwner,
		DisplayName:  in.OwnerName,
		Active:       true,
		CreatedAt:    now,
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO tenant_users (id, tenant_id, email, password_hash, role, display_name, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,true,$7)`,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.Role, user.DisplayName, now)
	if err != nil {
		// el índice único sobre LOWER(email) puede ganarle al SELECT previo
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, repository.ErrDuplicateEmail
		}
		return nil, nil, err
	}

	// (d) trial contra el plan base.
	_, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (id, tenant_id, plan_id, status, trial_ends_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), tenant.ID, planID, types.SubscriptionTrial, trialEnd, now)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return tenant, user, nil
}

// resolveSlug genera el slug y resuelve colisiones con sufijo incremental.
// Si el nombre no aporta caracteres usables, cae a un sufijo aleatorio.
func resolveSlug(ctx context.Context, tx pgx.Tx, businessName string) (string, error) {
	base := util.Slugify(businessName)
	if base == "" {
		suf, err := tokens.GenerateOpaqueToken(4)
		if err != nil {
			return "", err
		}
		base = "tenant-" + strings.ToLower(suf)
	}

	candidate := base
	for i := 1; ; i++ {
		var taken bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)`, candidate,
		).Scan(&taken); err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
