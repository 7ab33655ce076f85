package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

const sessionCols = `id, user_id, tenant_id, refresh_hash, user_agent, ip, expires_at, revoked_at, created_at`

func scanSession(row pgx.Row) (*types.Session, error) {
	var sess types.Session
	err := row.Scan(&sess.ID, &sess.UserID, &sess.TenantID, &sess.RefreshHash,
		&sess.UserAgent, &sess.IP, &sess.ExpiresAt, &sess.RevokedAt, &sess.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *Store) CreateSession(ctx context.Context, in repository.CreateSessionInput) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenant_user_sessions (id, user_id, tenant_id, refresh_hash, user_agent, ip, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`,
		in.ID, in.UserID, in.TenantID, in.RefreshHash, in.UserAgent, in.IP, in.ExpiresAt)
	return err
}

func (s *Store) GetSession(ctx context.Context, id string) (*types.Session, error) {
	const q = `SELECT ` + sessionCols + ` FROM tenant_user_sessions WHERE id = $1`
	return scanSession(s.pool.QueryRow(ctx, q, id))
}

// ConsumeSession: update condicional sobre el estado de la fila. Ante dos
// refresh concurrentes con el mismo token, la base garantiza exactamente un
// ganador; el perdedor recibe ErrAlreadyRevoked.
func (s *Store) ConsumeSession(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tenant_user_sessions
		   SET revoked_at = NOW()
		 WHERE id = $1 AND revoked_at IS NULL AND expires_at > NOW()`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrAlreadyRevoked
	}
	return nil
}

// RevokeSession es idempotente: "ya revocada" y "no existe" no son errores.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tenant_user_sessions
		   SET revoked_at = NOW()
		 WHERE id = $1 AND revoked_at IS NULL`, id)
	return err
}

func (s *Store) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	ct, err := s.pool.Exec(ctx, `
		UPDATE tenant_user_sessions
		   SET revoked_at = NOW()
		 WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
