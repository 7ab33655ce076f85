// Package cache provee una abstracción mínima de cache con backend
// memory (desarrollo) o redis (producción).
package cache

import (
	"time"
)

// Cache es la interfaz común de los adapters.
type Cache interface {
	Get(k string) ([]byte, bool)
	Set(k string, v []byte, ttl time.Duration)
	Delete(k string)
}

// Config para la factory.
type Config struct {
	Kind       string // "memory" | "redis"
	RedisAddr  string
	RedisDB    int
	Prefix     string
	DefaultTTL time.Duration
}
