// Package oauth contiene los DTOs del callback OAuth de Square.
package oauth

import "time"

// CallbackResult es la respuesta JSON del callback exitoso. Jamás
// incluye tokens: sólo metadata del merchant conectado.
type CallbackResult struct {
	Connected    bool       `json:"connected"`
	TenantID     string     `json:"tenant_id,omitempty"`
	MerchantID   string     `json:"merchant_id"`
	BusinessName string     `json:"business_name,omitempty"`
	LocationID   string     `json:"location_id,omitempty"`
	Environment  string     `json:"environment"`
	Scopes       []string   `json:"scopes,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	SellerTier   string     `json:"seller_tier,omitempty"`
	Persisted    bool       `json:"persisted"`
}
