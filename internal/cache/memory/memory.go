// Package memory adapta go-cache como backend de cache.Cache para
// desarrollo y deployments de una sola instancia.
package memory

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/frontdesk/internal/cache"
)

type Mem struct{ c *gocache.Cache }

// New crea el cache en memoria. El janitor corre cada dos TTLs para no
// pagar limpieza agresiva en caches chicos.
func New(defaultTTL time.Duration) cache.Cache {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	return &Mem{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *Mem) Get(k string) ([]byte, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Mem) Set(k string, v []byte, ttl time.Duration) { m.c.Set(k, v, ttl) }

func (m *Mem) Delete(k string) { m.c.Delete(k) }
