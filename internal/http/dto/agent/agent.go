// Package agent define los DTOs de las rutas del voice agent.
package agent

// ContextResponse es el contexto de tenant resuelto para el agente.
// Nunca lleva tokens: el agente opera contra este backend, no contra
// Square directo.
type ContextResponse struct {
	Source          string `json:"source"`
	TenantID        string `json:"tenant_id"`
	TenantSlug      string `json:"tenant_slug,omitempty"`
	BusinessName    string `json:"business_name,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	AgentID         string `json:"agent_id,omitempty"`
	SquareConnected bool   `json:"square_connected"`
	LocationID      string `json:"location_id,omitempty"`
	Environment     string `json:"environment,omitempty"`
	SellerWrites    bool   `json:"supports_seller_writes"`
}
