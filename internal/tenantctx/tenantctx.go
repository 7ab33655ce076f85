// Package tenantctx define el tenant context resuelto por request: la
// identidad del tenant más sus credenciales Square descifradas, listo
// para que booking/agents/analytics actúen en su nombre. Los campos
// secretos jamás se persisten ni se loguean.
package tenantctx

import "context"

// Source indica qué rama del resolver produjo el contexto. El orden es
// de mayor a menor confianza.
type Source string

const (
	SourceAgentAuth     Source = "agent_auth"
	SourceDashboardAuth Source = "dashboard_auth"
	SourceEnvFallback   Source = "env_fallback"
	SourceFallback      Source = "fallback" // mínimo, sin secretos
)

// Context es el resultado de la resolución. SquareAccessToken vacío
// significa "tenant sin Square conectado", no un error.
type Context struct {
	Source Source

	TenantID     string
	TenantSlug   string
	BusinessName string
	Timezone     string

	AgentID string // sólo SourceAgentAuth

	SquareAccessToken         string
	SquareLocationID          string
	SquareEnvironment         string
	SupportsSellerLevelWrites bool
}

// HasSquare indica si el contexto trae credenciales Square usables.
func (c *Context) HasSquare() bool {
	return c != nil && c.SquareAccessToken != ""
}

type ctxKey struct{}

// With adjunta el contexto resuelto al context.Context del request.
func With(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// From recupera el contexto resuelto; nil si el resolver no corrió.
func From(ctx context.Context) *Context {
	tc, _ := ctx.Value(ctxKey{}).(*Context)
	return tc
}
