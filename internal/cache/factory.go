package cache

// NewFromConfig está en un archivo aparte para evitar el ciclo
// cache → adapters → cache: los adapters se registran acá vía funciones
// constructoras inyectadas por el wiring (internal/http/server).
//
// En la práctica el wiring llama directo a memory.New / redis.New; esta
// indirección sólo existe para elegir por config.

type Constructors struct {
	Memory func(Config) Cache
	Redis  func(Config) Cache
}

// New elige el backend según cfg.Kind.
func (c Constructors) New(cfg Config) Cache {
	if cfg.Kind == "redis" && c.Redis != nil {
		return c.Redis(cfg)
	}
	return c.Memory(cfg)
}
