// Package cache provee el store de claves efímeras del flujo de login.
//
// Soporta:
//   - Memory (in-process, go-cache; para desarrollo/testing o un solo nodo)
//   - Redis (distribuido; necesario si hay más de una réplica)
//
// Lo usan el CallbackService (consumir cada state una sola vez) y el rate
// limiter de las rutas de login.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// SetNX guarda el valor solo si la key no existe. ttl 0 => no expira.
	// Retorna false si ya existía.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr suma 1 al contador key. El primer hit fija la expiración en ttl.
	// Devuelve el valor nuevo y el tiempo que le queda a la key.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close libera recursos.
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string // prefijo para todas las keys

	// DefaultTTL es la expiración por defecto de memory (ttl < 0).
	DefaultTTL time.Duration
}

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
