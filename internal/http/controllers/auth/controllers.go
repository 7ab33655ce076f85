// Package auth expone los controllers HTTP del flujo de autenticación.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	apperrors "github.com/dropDatabas3/frontdesk/internal/http/errors"
	"github.com/dropDatabas3/frontdesk/internal/http/helpers"
	"github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	authsvc "github.com/dropDatabas3/frontdesk/internal/http/services/auth"
)

// Controllers agrupa los handlers de auth ya cableados a sus services.
type Controllers struct {
	svcs *authsvc.Services
}

// NewControllers crea los controllers de auth.
func NewControllers(svcs *authsvc.Services) *Controllers {
	return &Controllers{svcs: svcs}
}

// translate mapea los errores de service a la taxonomía HTTP.
func translate(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, authsvc.ErrMissingFields):
		return apperrors.ErrMissingFields
	case errors.Is(err, authsvc.ErrWeakPassword):
		return apperrors.ErrBadRequest.WithDetail("password must be at least 8 characters")
	case errors.Is(err, authsvc.ErrEmailTaken):
		return apperrors.ErrEmailAlreadyInUse
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return apperrors.ErrInvalidCredentials
	case errors.Is(err, authsvc.ErrInvalidRefresh):
		return apperrors.ErrInvalidToken
	case errors.Is(err, authsvc.ErrBasePlanMissing):
		return apperrors.ErrConfiguration.WithCause(err)
	case errors.Is(err, authsvc.ErrUserNotFound):
		return apperrors.ErrNotFound
	default:
		return apperrors.FromError(err)
	}
}

// Signup maneja POST /v1/auth/signup
func (c *Controllers) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	resp, err := c.svcs.Signup.Signup(r.Context(), req, r.UserAgent(), clientIP(r))
	if err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Login maneja POST /v1/auth/login
func (c *Controllers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	resp, err := c.svcs.Login.LoginPassword(r.Context(), req, r.UserAgent(), clientIP(r))
	if err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Refresh maneja POST /v1/auth/refresh
func (c *Controllers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	resp, err := c.svcs.Refresh.Rotate(r.Context(), req.RefreshToken, r.UserAgent(), clientIP(r))
	if err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Logout maneja POST /v1/auth/logout (idempotente). Con all=true revoca
// todas las sesiones del usuario autenticado; eso requiere access token.
func (c *Controllers) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	if req.All {
		userID := middlewares.GetUserID(r.Context())
		if userID == "" {
			apperrors.WriteError(w, apperrors.ErrTokenMissing)
			return
		}
		n, err := c.svcs.Refresh.LogoutAll(r.Context(), userID)
		if err != nil {
			apperrors.WriteError(w, translate(err))
			return
		}
		helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Revoked: true, Count: n})
		return
	}

	if err := c.svcs.Refresh.Logout(r.Context(), req.RefreshToken); err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Revoked: true})
}

// LogoutAll maneja POST /v1/auth/logout-all (requiere access token)
func (c *Controllers) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())
	if userID == "" {
		apperrors.WriteError(w, apperrors.ErrTokenMissing)
		return
	}

	n, err := c.svcs.Refresh.LogoutAll(r.Context(), userID)
	if err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.LogoutResponse{Revoked: true, Count: n})
}

// Me maneja GET /v1/me
func (c *Controllers) Me(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.GetUserID(r.Context())
	if userID == "" {
		apperrors.WriteError(w, apperrors.ErrTokenMissing)
		return
	}

	resp, err := c.svcs.Profile.Me(r.Context(), userID)
	if err != nil {
		apperrors.WriteError(w, translate(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
