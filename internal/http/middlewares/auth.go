package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/frontdesk/internal/http/errors"
	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
)

// bearerToken extrae el token del header Authorization, o "".
func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

// RequireAuth valida Authorization: Bearer <JWT de acceso> y guarda las
// claims en el contexto. Token inválido, expirado o de tipo refresh: 401.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, errors.ErrInvalidToken)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = WithUserID(ctx, claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithOptionalAuth es RequireAuth sin el rechazo: si viene un access
// token válido deja las claims en el contexto, si no sigue de largo.
// Para endpoints públicos con comportamiento extra autenticado (logout
// con all=true).
func WithOptionalAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if claims, err := issuer.VerifyAccess(raw); err == nil {
					ctx := WithClaims(r.Context(), claims)
					ctx = WithUserID(ctx, claims.Subject)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
