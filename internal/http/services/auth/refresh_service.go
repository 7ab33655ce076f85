package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/audit"
	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/auth"
	"github.com/dropDatabas3/frontdesk/internal/metrics"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	tokens "github.com/dropDatabas3/frontdesk/internal/security/token"
)

type refreshService struct {
	deps Deps
}

// NewRefreshService crea el service de rotación y revocación de sesiones.
func NewRefreshService(deps Deps) RefreshService {
	return &refreshService{deps: deps}
}

// Rotate consume el refresh presentado y emite un par nuevo. El orden es
// estricto: verificar firma, validar fila, CONSUMIR, recién ahí emitir.
// Ante dos requests concurrentes con el mismo token, ConsumeSession hace
// que exactamente uno gane; el otro ve la sesión ya revocada y recibe el
// mismo 401 genérico que cualquier token inválido.
func (s *refreshService) Rotate(ctx context.Context, refreshToken, userAgent, ip string) (*dto.RefreshResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Rotate"),
	)

	if refreshToken == "" {
		return nil, ErrMissingFields
	}

	// Paso 1: Firma e issuer. Necesario pero no suficiente.
	claims, err := s.deps.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		log.Info("refresh rejected: bad signature or expired jwt", logger.Err(err))
		metrics.RefreshRotations.WithLabelValues("failure").Inc()
		return nil, ErrInvalidRefresh
	}

	log = log.With(logger.SessionID(claims.SessionID), logger.UserID(claims.Subject))

	// Paso 2: La fila de sesión decide.
	session, err := s.deps.Store.GetSession(ctx, claims.SessionID)
	if err != nil {
		log.Info("refresh rejected: session not found")
		metrics.RefreshRotations.WithLabelValues("failure").Inc()
		return nil, ErrInvalidRefresh
	}

	// El hash almacenado debe corresponder al token presentado: un JWT
	// válido de otra sesión no sirve.
	if !tokens.ConstantTimeEqual(hashRefresh(refreshToken), session.RefreshHash) {
		log.Info("refresh rejected: token/session hash mismatch")
		metrics.RefreshRotations.WithLabelValues("failure").Inc()
		return nil, ErrInvalidRefresh
	}

	if !session.Usable(time.Now().UTC()) {
		log.Info("refresh rejected: session revoked or expired")
		metrics.RefreshRotations.WithLabelValues("failure").Inc()
		return nil, ErrInvalidRefresh
	}

	// Paso 3: Usuario todavía activo
	user, err := s.deps.Store.GetUserByID(ctx, session.UserID)
	if err != nil || !user.Active {
		log.Info("refresh rejected: user missing or inactive")
		metrics.RefreshRotations.WithLabelValues("failure").Inc()
		return nil, ErrInvalidRefresh
	}

	// Paso 4: Consumir. Acá se decide la carrera.
	if err := s.deps.Store.ConsumeSession(ctx, session.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyRevoked) {
			log.Info("refresh rejected: lost rotation race")
			audit.Record(ctx, audit.EventRotationRaceLost,
				logger.SessionID(session.ID), logger.UserID(session.UserID))
			metrics.RefreshRotations.WithLabelValues("failure").Inc()
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// Paso 5: Emitir el par nuevo sobre una sesión nueva
	pair, err := issueSession(ctx, s.deps, user, userAgent, ip)
	if err != nil {
		return nil, err
	}

	metrics.RefreshRotations.WithLabelValues("success").Inc()
	log.Info("refresh rotated")

	return &dto.RefreshResponse{Tokens: pair}, nil
}

// Logout revoca la sesión del refresh presentado. Es idempotente: un
// token ya revocado, expirado o directamente inválido devuelve éxito
// igual; no hay nada que un atacante aprenda de la respuesta.
func (s *refreshService) Logout(ctx context.Context, refreshToken string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Logout"),
	)

	claims, err := s.deps.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		log.Debug("logout with unverifiable token, treated as success")
		return nil
	}

	if err := s.deps.Store.RevokeSession(ctx, claims.SessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	audit.Record(ctx, audit.EventSessionRevoked, logger.SessionID(claims.SessionID))
	log.Info("session revoked", logger.SessionID(claims.SessionID))
	return nil
}

// LogoutAll revoca todas las sesiones vivas del usuario.
func (s *refreshService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.deps.Store.RevokeAllSessions(ctx, userID)
	if err != nil {
		return 0, err
	}
	audit.Record(ctx, audit.EventSessionsRevoked,
		logger.UserID(userID), logger.Int("count", int(n)))
	logger.From(ctx).Info("all sessions revoked",
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("LogoutAll"),
		logger.UserID(userID),
		logger.Int("count", int(n)),
	)
	return n, nil
}
