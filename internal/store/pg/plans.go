package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
)

func (s *Store) GetPlanByCode(ctx context.Context, code string) (*types.Plan, error) {
	const q = `SELECT id, code, name, created_at FROM plans WHERE code = $1`
	var p types.Plan
	err := s.pool.QueryRow(ctx, q, code).Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SeedPlan inserta el plan si no existe (idempotente, para `frontdesk seed`).
func (s *Store) SeedPlan(ctx context.Context, code, name string) (*types.Plan, error) {
	const q = `
		INSERT INTO plans (id, code, name, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, code, name, created_at`
	var p types.Plan
	if err := s.pool.QueryRow(ctx, q, uuid.NewString(), code, name).Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
