package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/frontdesk/internal/jwt"
)

func newTestIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()
	iss, err := jwtx.NewIssuer("frontdesk-test", "", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return iss
}

func TestRequireAuthRejectsMissingAndGarbageTokens(t *testing.T) {
	iss := newTestIssuer(t)
	h := mw.RequireAuth(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthAcceptsAccessButNotRefresh(t *testing.T) {
	iss := newTestIssuer(t)
	var gotUser string
	h := mw.RequireAuth(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = mw.GetUserID(r.Context())
	}))

	access, _, err := iss.IssueAccess("u-1", "t-1", "owner")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", gotUser)

	// un refresh firmado por el mismo issuer no pasa como access
	refresh, _, err := iss.IssueRefresh("u-1", "t-1", "s-1")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthPassesThroughWithoutToken(t *testing.T) {
	iss := newTestIssuer(t)
	var gotUser string
	h := mw.WithOptionalAuth(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = mw.GetUserID(r.Context())
	}))

	// sin token: sigue de largo sin claims
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotUser)

	// token basura: también sigue, sin claims
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotUser)

	// token válido: claims disponibles para logout all=true
	access, _, err := iss.IssueAccess("u-9", "t-1", "owner")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u-9", gotUser)
}
