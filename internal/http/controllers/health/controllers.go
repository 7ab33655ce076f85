// Package health expone los endpoints de liveness y readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/http/helpers"
)

// Controllers agrupa los handlers de health.
type Controllers struct {
	store repository.Store
}

// NewControllers crea los controllers de health.
func NewControllers(store repository.Store) *Controllers {
	return &Controllers{store: store}
}

// Healthz: liveness. El proceso responde, nada más.
func (c *Controllers) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz: readiness. Verifica el pool de DB con timeout corto.
func (c *Controllers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"db":     "unreachable",
		})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
