package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

const agentCols = `id, tenant_id, retell_agent_id, display_name, bearer_token_enc, bearer_hash, created_at`

func scanAgent(row pgx.Row) (*types.Agent, error) {
	var a types.Agent
	err := row.Scan(&a.ID, &a.TenantID, &a.RetellAgentID, &a.DisplayName,
		&a.BearerTokenEnc, &a.BearerHash, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetAgentByRetellID(ctx context.Context, retellAgentID string) (*types.Agent, error) {
	const q = `SELECT ` + agentCols + ` FROM agents WHERE retell_agent_id = $1`
	return scanAgent(s.pool.QueryRow(ctx, q, retellAgentID))
}

func (s *Store) GetAgentByBearerHash(ctx context.Context, hash string) (*types.Agent, error) {
	const q = `SELECT ` + agentCols + ` FROM agents WHERE bearer_hash = $1`
	return scanAgent(s.pool.QueryRow(ctx, q, hash))
}

func (s *Store) StoreAgentBearerToken(ctx context.Context, agentID, tokenEnc, tokenHash string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE agents SET bearer_token_enc = $2, bearer_hash = $3 WHERE id = $1`,
		agentID, tokenEnc, tokenHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CreateAgent(ctx context.Context, a *types.Agent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agents (id, tenant_id, retell_agent_id, display_name, bearer_token_enc, bearer_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())`,
		a.ID, a.TenantID, a.RetellAgentID, a.DisplayName, a.BearerTokenEnc, a.BearerHash)
	return err
}
