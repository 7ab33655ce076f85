// Package square implements the OAuth 2.0 code exchange and seller
// metadata lookups against the Square Connect API. Like GitHub, Square
// is plain OAuth 2.0 without ID tokens: merchant identity comes from
// separate API calls after the exchange.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	productionBase = "https://connect.squareup.com"
	sandboxBase    = "https://connect.squareupsandbox.com"

	apiVersion = "2024-06-04"
)

// ErrCodeExchange marks failures attributable to the caller (bad,
// expired or reused authorization code). Anything else from the token
// endpoint is an upstream failure.
var ErrCodeExchange = errors.New("square: code exchange rejected")

// Client talks to the Square Connect API.
type Client struct {
	ApplicationID     string
	ApplicationSecret string
	RedirectURI       string

	// BaseURL overrides the environment-derived host. Tests only.
	BaseURL string

	http *http.Client
}

// New creates a Square OAuth client.
func New(applicationID, applicationSecret, redirectURI string) *Client {
	return &Client{
		ApplicationID:     applicationID,
		ApplicationSecret: applicationSecret,
		RedirectURI:       redirectURI,
		http:              &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) baseURL(environment string) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if environment == "production" {
		return productionBase
	}
	return sandboxBase
}

// TokenResponse is the response from Square's token endpoint.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresAt    string   `json:"expires_at"`
	MerchantID   string   `json:"merchant_id"`
	RefreshToken string   `json:"refresh_token"`
	ShortLived   bool     `json:"short_lived"`
	Scopes       []string `json:"scopes,omitempty"`
}

// Expiry parsea expires_at (RFC3339), o nil si falta o está malformado.
func (t *TokenResponse) Expiry() *time.Time {
	if t.ExpiresAt == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, t.ExpiresAt)
	if err != nil {
		return nil
	}
	return &ts
}

type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode exchanges an authorization code for merchant tokens.
// A 4xx from the token endpoint means the code was bad, expired or
// already used and wraps ErrCodeExchange; other failures are upstream.
// Neither the application secret nor the returned tokens are ever
// logged here or by callers.
func (c *Client) ExchangeCode(ctx context.Context, code, environment string) (*TokenResponse, error) {
	body := map[string]string{
		"client_id":     c.ApplicationID,
		"client_secret": c.ApplicationSecret,
		"code":          code,
		"grant_type":    "authorization_code",
	}
	if c.RedirectURI != "" {
		body["redirect_uri"] = c.RedirectURI
	}
	raw, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL(environment)+"/oauth2/token", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Square-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("square token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var te tokenError
		_ = json.NewDecoder(resp.Body).Decode(&te)
		if te.Error == "" {
			te.Error = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrCodeExchange, te.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("square token endpoint: unexpected status %d", resp.StatusCode)
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("square token endpoint: decode response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("square token endpoint: no access_token in response")
	}
	return &tr, nil
}

func (c *Client) get(ctx context.Context, environment, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL(environment)+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Square-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("square GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
