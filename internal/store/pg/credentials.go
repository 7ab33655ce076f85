package pg

import (
	"context"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

// UpsertSquareCredential inserta o pisa por (tenant, merchant). Los tokens ya
// vienen cifrados por el vault; esta capa nunca ve plaintext.
func (s *Store) UpsertSquareCredential(ctx context.Context, cred *types.SquareCredential) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO square_credentials
			(tenant_id, agent_id, merchant_id, default_location_id, environment,
			 supports_seller_writes, access_token_enc, refresh_token_enc,
			 expires_at, scopes, last_refreshed_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),NOW())
		ON CONFLICT (tenant_id, merchant_id) DO UPDATE SET
			agent_id               = EXCLUDED.agent_id,
			default_location_id    = EXCLUDED.default_location_id,
			environment            = EXCLUDED.environment,
			supports_seller_writes = EXCLUDED.supports_seller_writes,
			access_token_enc       = EXCLUDED.access_token_enc,
			refresh_token_enc      = EXCLUDED.refresh_token_enc,
			expires_at             = EXCLUDED.expires_at,
			scopes                 = EXCLUDED.scopes,
			last_refreshed_at      = NOW(),
			updated_at             = NOW()`,
		cred.TenantID, cred.AgentID, cred.MerchantID, cred.DefaultLocationID,
		cred.Environment, cred.SupportsSellerWrites, cred.AccessTokenEnc,
		cred.RefreshTokenEnc, cred.ExpiresAt, cred.Scopes)
	return err
}

func (s *Store) LatestSquareCredential(ctx context.Context, tenantID string) (*types.SquareCredential, error) {
	const q = `
		SELECT tenant_id, agent_id, merchant_id, default_location_id, environment,
		       supports_seller_writes, access_token_enc, refresh_token_enc,
		       expires_at, scopes, last_refreshed_at, created_at, updated_at
		  FROM square_credentials
		 WHERE tenant_id = $1
		 ORDER BY last_refreshed_at DESC
		 LIMIT 1`
	var c types.SquareCredential
	err := s.pool.QueryRow(ctx, q, tenantID).Scan(
		&c.TenantID, &c.AgentID, &c.MerchantID, &c.DefaultLocationID, &c.Environment,
		&c.SupportsSellerWrites, &c.AccessTokenEnc, &c.RefreshTokenEnc,
		&c.ExpiresAt, &c.Scopes, &c.LastRefreshedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
