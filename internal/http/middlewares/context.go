package middlewares

import (
	"context"

	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyClaims
	ctxKeyUserID
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID devuelve el request id inyectado por WithRequestID, o "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// WithClaims guarda las claims del access token verificado.
func WithClaims(ctx context.Context, c *jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// GetClaims devuelve las claims del access token, o nil si el request
// no pasó por RequireAuth.
func GetClaims(ctx context.Context) *jwtx.Claims {
	v, _ := ctx.Value(ctxKeyClaims).(*jwtx.Claims)
	return v
}

// WithUserID guarda el user id autenticado.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, id)
}

// GetUserID devuelve el user id autenticado, o "".
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserID).(string)
	return v
}
