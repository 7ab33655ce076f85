package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/oauth"
	mw "github.com/dropDatabas3/frontdesk/internal/http/middlewares"
)

type stubCallback struct {
	result *dto.CallbackResult
	err    error
}

func (s *stubCallback) Complete(_ context.Context, _, _, _ string) (*dto.CallbackResult, error) {
	return s.result, s.err
}

func TestSquareCallbackHTMLRelaxesCSPForPopupScript(t *testing.T) {
	c := NewControllers(&stubCallback{result: &dto.CallbackResult{
		Connected:    true,
		BusinessName: "Luna Spa",
	}})

	h := mw.Chain(http.HandlerFunc(c.SquareCallback), mw.WithSecurityHeaders())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth/square/callback?code=abc&state=xyz", nil)
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<script>")

	// el handler pisa la CSP de API para que el script inline corra
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "script-src 'unsafe-inline'")
	assert.NotEqual(t, "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'self'", csp)
}

func TestSquareCallbackJSONKeepsStrictCSP(t *testing.T) {
	c := NewControllers(&stubCallback{result: &dto.CallbackResult{Connected: true}})

	h := mw.Chain(http.HandlerFunc(c.SquareCallback), mw.WithSecurityHeaders())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth/square/callback?code=abc&state=xyz", nil)
	req.Header.Set("Accept", "application/json")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "<script>"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotContains(t, rec.Header().Get("Content-Security-Policy"), "unsafe-inline")
}
