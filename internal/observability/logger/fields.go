package logger

import (
	"time"

	"go.uber.org/zap"
)

// Helpers para campos estándar. Mantienen consistentes los nombres de campo
// entre capas (handler, service, store).

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// ─── Negocio ───

func TenantID(v string) zap.Field { return zap.String("tenant_id", v) }

func TenantSlug(v string) zap.Field { return zap.String("tenant_slug", v) }

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func SessionID(v string) zap.Field { return zap.String("session_id", v) }

func AgentID(v string) zap.Field { return zap.String("agent_id", v) }

func MerchantID(v string) zap.Field { return zap.String("merchant_id", v) }

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ─── Genéricos ───

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }

func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }
