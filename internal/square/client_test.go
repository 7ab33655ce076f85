package square

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeCodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"sq0atp-xyz","refresh_token":"sq0rtp-abc","merchant_id":"M123","expires_at":"2026-10-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := New("app-id", "app-secret", "https://example.com/oauth/square/callback")
	c.BaseURL = srv.URL

	tr, err := c.ExchangeCode(context.Background(), "code-1", "sandbox")
	require.NoError(t, err)
	assert.Equal(t, "M123", tr.MerchantID)
	assert.Equal(t, "sq0atp-xyz", tr.AccessToken)
	assert.Equal(t, "sq0rtp-abc", tr.RefreshToken)
}

func TestExchangeCodeBadCodeIsClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Authorization code is expired"}`))
	}))
	defer srv.Close()

	c := New("app-id", "app-secret", "")
	c.BaseURL = srv.URL

	_, err := c.ExchangeCode(context.Background(), "stale-code", "sandbox")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodeExchange)
}

func TestExchangeCodeServerErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New("app-id", "app-secret", "")
	c.BaseURL = srv.URL

	_, err := c.ExchangeCode(context.Background(), "code", "production")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCodeExchange)
}

func TestFetchSellerMetadataPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/merchants/me":
			w.Write([]byte(`{"merchant":{"id":"M1","business_name":"Acme Spa","country":"US","currency":"USD","main_location_id":"L1"}}`))
		case "/v2/locations":
			w.Write([]byte(`{"locations":[{"id":"L1","status":"ACTIVE","timezone":"America/Chicago"}]}`))
		default:
			// booking profile endpoint fails; the completion still works
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := New("app-id", "app-secret", "")
	c.BaseURL = srv.URL

	md := c.FetchSellerMetadata(context.Background(), "tok", "sandbox")
	assert.Equal(t, "M1", md.MerchantID)
	assert.Equal(t, "Acme Spa", md.BusinessName)
	assert.Equal(t, "L1", md.DefaultLocationID)
	assert.Equal(t, "America/Chicago", md.LocationTimezone)
	assert.False(t, md.SellerWritable)
}
