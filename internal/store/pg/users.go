package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

const userCols = `id, tenant_id, email, password_hash, role, display_name, active, last_login_at, created_at`

func scanUser(row pgx.Row) (*types.TenantUser, error) {
	var u types.TenantUser
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Role,
		&u.DisplayName, &u.Active, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.TenantUser, error) {
	const q = `SELECT ` + userCols + ` FROM tenant_users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*types.TenantUser, error) {
	const q = `SELECT ` + userCols + ` FROM tenant_users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE tenant_users SET last_login_at = $2 WHERE id = $1`, userID, at)
	return err
}
