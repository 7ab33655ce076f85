// Package oauth expone el controller del callback OAuth de Square.
package oauth

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	apperrors "github.com/dropDatabas3/frontdesk/internal/http/errors"
	"github.com/dropDatabas3/frontdesk/internal/http/helpers"
	oauthsvc "github.com/dropDatabas3/frontdesk/internal/http/services/oauth"
)

// Controllers agrupa los handlers OAuth.
type Controllers struct {
	callback oauthsvc.CallbackService
}

// NewControllers crea los controllers OAuth.
func NewControllers(cb oauthsvc.CallbackService) *Controllers {
	return &Controllers{callback: cb}
}

// SquareCallback maneja GET /oauth/square/callback. Negociación de
// contenido: JSON si el cliente lo pide, HTML (página de cierre del
// popup) en el caso normal del browser. Ni el éxito ni el error
// incluyen jamás tokens o secretos parciales.
func (c *Controllers) SquareCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := c.callback.Complete(r.Context(), q.Get("code"), q.Get("state"), q.Get("error"))

	if helpers.WantsJSON(r) {
		if err != nil {
			apperrors.WriteError(w, translateOAuth(err))
			return
		}
		helpers.WriteJSON(w, http.StatusOK, result)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// La CSP global de API (default-src 'none') bloquearía el script
	// inline que cierra el popup; esta es la única ruta que sirve HTML.
	w.Header().Set("Content-Security-Policy",
		"default-src 'none'; script-src 'unsafe-inline'; frame-ancestors 'none'; base-uri 'none'")
	if err != nil {
		status := translateOAuth(err).HTTPStatus
		w.WriteHeader(status)
		fmt.Fprint(w, oauthErrorPage)
		return
	}
	fmt.Fprintf(w, oauthSuccessPage, html.EscapeString(result.BusinessName))
}

func translateOAuth(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, oauthsvc.ErrClient):
		return apperrors.ErrBadRequest.WithDetail("authorization failed, restart the Square connection flow")
	case errors.Is(err, oauthsvc.ErrUpstream):
		return apperrors.ErrUpstream
	default:
		return apperrors.FromError(err)
	}
}

const oauthSuccessPage = `<!doctype html>
<html><head><title>Square connected</title></head>
<body>
<p>Square account %s connected. You can close this window.</p>
<script>if (window.opener) { window.opener.postMessage("square-connected", "*"); window.close(); }</script>
</body></html>`

const oauthErrorPage = `<!doctype html>
<html><head><title>Square connection failed</title></head>
<body>
<p>We could not connect your Square account. Close this window and try again from the dashboard.</p>
</body></html>`
