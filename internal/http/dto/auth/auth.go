// Package auth contiene los DTOs del flujo de autenticación del dashboard.
package auth

import "time"

// SignupRequest es el alta de negocio + owner.
type SignupRequest struct {
	BusinessName string `json:"business_name"`
	Timezone     string `json:"timezone,omitempty"`
	Industry     string `json:"industry,omitempty"`
	OwnerEmail   string `json:"owner_email"`
	OwnerName    string `json:"owner_name,omitempty"`
	Password     string `json:"password"`
}

// TenantSummary es la vista pública del tenant en las respuestas de auth.
type TenantSummary struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug"`
	BusinessName string     `json:"business_name"`
	Status       string     `json:"status"`
	Timezone     string     `json:"timezone,omitempty"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
}

// UserSummary es la vista pública del usuario autenticado.
type UserSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
}

// TokenPair son los tokens emitidos. El refresh se entrega UNA vez;
// el servidor sólo guarda su hash.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"` // "Bearer"
	ExpiresAt    time.Time `json:"expires_at"`
}

// SignupResponse devuelve tenant + owner + tokens de la sesión inicial.
type SignupResponse struct {
	Tenant TenantSummary `json:"tenant"`
	User   UserSummary   `json:"user"`
	Tokens TokenPair     `json:"tokens"`
}

// LoginRequest autentica un usuario del dashboard.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse devuelve el usuario, su tenant y los tokens.
type LoginResponse struct {
	Tenant TenantSummary `json:"tenant"`
	User   UserSummary   `json:"user"`
	Tokens TokenPair     `json:"tokens"`
}

// RefreshRequest rota una sesión.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse es el par nuevo post-rotación.
type RefreshResponse struct {
	Tokens TokenPair `json:"tokens"`
}

// LogoutRequest revoca la sesión del refresh token presentado, o todas
// las del usuario si all=true (eso sí requiere access token).
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

// LogoutResponse confirma la revocación (idempotente).
type LogoutResponse struct {
	Revoked bool  `json:"revoked"`
	Count   int64 `json:"count,omitempty"` // sólo logout-all
}

// MeResponse es el perfil del usuario autenticado más su tenant.
type MeResponse struct {
	Tenant          TenantSummary `json:"tenant"`
	User            UserSummary   `json:"user"`
	SquareConnected bool          `json:"square_connected"`
}
