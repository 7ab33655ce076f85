// Package bootstrap cubre las precondiciones de un deployment nuevo:
// hoy, que exista el plan base antes de aceptar signups.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

// EnsureBasePlan garantiza que el plan base exista. Idempotente: si ya
// está sembrado no toca nada. Se corre en el arranque del server para
// que un deployment fresco no rechace el primer signup con "base plan
// not seeded".
func EnsureBasePlan(ctx context.Context, plans repository.Plans, code string) error {
	log := logger.From(ctx).With(logger.Layer("bootstrap"), logger.Op("EnsureBasePlan"))

	if _, err := plans.GetPlanByCode(ctx, code); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check base plan: %w", err)
	}

	if _, err := plans.SeedPlan(ctx, code, "Base plan"); err != nil {
		return fmt.Errorf("seed base plan: %w", err)
	}
	log.Info("base plan seeded", logger.String("plan_code", code))
	return nil
}
