package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

// Eventos de seguridad que queremos poder correlacionar después
// (revocaciones, rotaciones perdidas, conexiones de Square). Hoy salen
// por el logger estructurado; un sink externo puede colgarse del campo
// "audit_event".
const (
	EventLoginFailed      = "auth.login_failed"
	EventSessionRevoked   = "auth.session_revoked"
	EventSessionsRevoked  = "auth.sessions_revoked_all"
	EventRotationRaceLost = "auth.refresh_rotation_race_lost"
	EventSquareConnected  = "square.credentials_stored"
	EventAgentTokenIssued = "agent.bearer_issued"
)

// Record escribe un evento de auditoría por el logger del request.
// Nunca pasar tokens ni hashes en los fields.
func Record(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).With(logger.Layer("audit"), zap.String("audit_event", event)).Info(event, fields...)
}
