package oauth_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	oauthsvc "github.com/dropDatabas3/frontdesk/internal/http/services/oauth"
	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
	"github.com/dropDatabas3/frontdesk/internal/square"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

type memCreds struct {
	byKey map[string]*types.SquareCredential
}

func (m *memCreds) UpsertSquareCredential(_ context.Context, c *types.SquareCredential) error {
	if m.byKey == nil {
		m.byKey = map[string]*types.SquareCredential{}
	}
	m.byKey[c.TenantID+"|"+c.MerchantID] = c
	return nil
}

func (m *memCreds) LatestSquareCredential(_ context.Context, tenantID string) (*types.SquareCredential, error) {
	for _, c := range m.byKey {
		if c.TenantID == tenantID {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type noAgents struct{}

func (noAgents) GetAgentByRetellID(context.Context, string) (*types.Agent, error) {
	return nil, repository.ErrNotFound
}
func (noAgents) GetAgentByBearerHash(context.Context, string) (*types.Agent, error) {
	return nil, repository.ErrNotFound
}
func (noAgents) StoreAgentBearerToken(context.Context, string, string, string) error { return nil }
func (noAgents) CreateAgent(context.Context, *types.Agent) error                     { return nil }

func newSquareStub(t *testing.T, tokenStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			if tokenStatus != http.StatusOK {
				w.WriteHeader(tokenStatus)
				w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			w.Write([]byte(`{"access_token":"sq0atp-live","refresh_token":"sq0rtp-live","merchant_id":"MACME","expires_at":"2026-10-15T00:00:00Z","scopes":["APPOINTMENTS_READ","bad scope"]}`))
		case "/v2/merchants/me":
			w.Write([]byte(`{"merchant":{"id":"MACME","business_name":"Acme Spa","main_location_id":"LMAIN"}}`))
		case "/v2/locations":
			w.Write([]byte(`{"locations":[{"id":"LMAIN","status":"ACTIVE","timezone":"America/Chicago"}]}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
}

func newService(t *testing.T, srvURL, defaultTenant string) (oauthsvc.CallbackService, *memCreds, *vault.Vault) {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	box, err := secretbox.New(key)
	require.NoError(t, err)

	creds := &memCreds{}
	v := vault.New(box, creds, noAgents{})

	client := square.New("app-id", "app-secret", "")
	client.BaseURL = srvURL

	svc := oauthsvc.NewCallbackService(oauthsvc.CallbackDeps{
		Square:          client,
		Vault:           v,
		Environment:     "sandbox",
		DefaultTenantID: defaultTenant,
	})
	return svc, creds, v
}

func encodeState(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestCallbackPersistsEncryptedCredentials(t *testing.T) {
	srv := newSquareStub(t, http.StatusOK)
	defer srv.Close()

	svc, creds, v := newService(t, srv.URL, "")
	state := encodeState(`{"tenant_id":"t-1"}`)

	res, err := svc.Complete(context.Background(), "auth-code", state, "")
	require.NoError(t, err)
	assert.True(t, res.Connected)
	assert.True(t, res.Persisted)
	assert.Equal(t, "MACME", res.MerchantID)
	assert.Equal(t, "Acme Spa", res.BusinessName)
	assert.Equal(t, "LMAIN", res.LocationID)
	// el scope malformado del token response no sobrevive
	assert.Equal(t, []string{"APPOINTMENTS_READ"}, res.Scopes)

	stored := creds.byKey["t-1|MACME"]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.AccessTokenEnc, "sq0atp-live")
	assert.NotContains(t, stored.RefreshTokenEnc, "sq0rtp-live")

	// y el vault la descifra de vuelta
	dec, err := v.LatestSquareCredential(context.Background(), "t-1")
	require.NoError(t, err)
	require.NotNil(t, dec)
	assert.Equal(t, "sq0atp-live", dec.AccessToken)
}

func TestCallbackUndecodableStateFallsBackToDefaultTenant(t *testing.T) {
	srv := newSquareStub(t, http.StatusOK)
	defer srv.Close()

	svc, creds, _ := newService(t, srv.URL, "t-default")

	res, err := svc.Complete(context.Background(), "auth-code", "@@not-decodable@@", "")
	require.NoError(t, err)
	assert.True(t, res.Persisted)
	assert.NotNil(t, creds.byKey["t-default|MACME"])
}

func TestCallbackNoTenantCompletesWithoutPersisting(t *testing.T) {
	srv := newSquareStub(t, http.StatusOK)
	defer srv.Close()

	svc, creds, _ := newService(t, srv.URL, "")

	res, err := svc.Complete(context.Background(), "auth-code", "garbage", "")
	require.NoError(t, err)
	assert.True(t, res.Connected)
	assert.False(t, res.Persisted)
	assert.Empty(t, creds.byKey)
}

func TestCallbackBadCodeIsClientError(t *testing.T) {
	srv := newSquareStub(t, http.StatusBadRequest)
	defer srv.Close()

	svc, _, _ := newService(t, srv.URL, "t-1")

	_, err := svc.Complete(context.Background(), "stale-code", "", "")
	assert.ErrorIs(t, err, oauthsvc.ErrClient)
}

func TestCallbackUpstreamFailureIs502(t *testing.T) {
	srv := newSquareStub(t, http.StatusInternalServerError)
	defer srv.Close()

	svc, _, _ := newService(t, srv.URL, "t-1")

	_, err := svc.Complete(context.Background(), "auth-code", "", "")
	assert.ErrorIs(t, err, oauthsvc.ErrUpstream)
}

func TestCallbackProviderErrorShortCircuits(t *testing.T) {
	svc, _, _ := newService(t, "http://127.0.0.1:0", "t-1")

	_, err := svc.Complete(context.Background(), "", "", "access_denied")
	assert.ErrorIs(t, err, oauthsvc.ErrClient)
}

func TestCallbackMissingCodeIsClientError(t *testing.T) {
	svc, _, _ := newService(t, "http://127.0.0.1:0", "t-1")

	_, err := svc.Complete(context.Background(), "", "", "")
	assert.ErrorIs(t, err, oauthsvc.ErrClient)
}

func TestCallbackStateBusinessNameIsDisplayFallback(t *testing.T) {
	// merchants/me caído: el enriquecimiento no aporta nombre y el
	// display cae al que venía en el state
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			w.Write([]byte(`{"access_token":"sq0atp-live","merchant_id":"MACME"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, _, _ := newService(t, srv.URL, "t-1")
	res, err := svc.Complete(context.Background(), "code-1",
		encodeState(`{"tenant_id":"t-1","business_name":"Luna Spa"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "Luna Spa", res.BusinessName)
}
