package middlewares

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	"github.com/dropDatabas3/frontdesk/internal/http/errors"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

type agentCtxKey struct{}

// WithAgent guarda el agente autenticado en el contexto.
func WithAgent(ctx context.Context, a *types.Agent) context.Context {
	return context.WithValue(ctx, agentCtxKey{}, a)
}

// GetAgent devuelve el agente autenticado, o nil.
func GetAgent(ctx context.Context) *types.Agent {
	a, _ := ctx.Value(agentCtxKey{}).(*types.Agent)
	return a
}

// RequireAgentAuth autentica llamadas originadas por agentes de voz con
// Authorization: Bearer <token opaco>. El lookup es por hash del token y
// la decisión final por comparación constant-time contra el plaintext
// descifrado del vault.
func RequireAgentAuth(v *vault.Vault) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			agent, err := v.AuthenticateAgentBearer(r.Context(), raw)
			if err != nil {
				// causa exacta a los logs, 401 genérico al cliente
				logger.From(r.Context()).Info("agent bearer rejected",
					logger.Op("agent_auth"), logger.Err(err))
				errors.WriteError(w, errors.ErrInvalidToken)
				return
			}

			ctx := WithAgent(r.Context(), agent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
