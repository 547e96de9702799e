package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache.
type memoryClient struct {
	prefix string
	c      *gocache.Cache
	incrMu sync.Mutex // serializa Add + IncrementInt64 en Incr
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string, defaultTTL time.Duration) Client {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &memoryClient{
		prefix: prefix,
		c:      gocache.New(defaultTTL, time.Minute),
	}
}

// ttlFor traduce la convención de Client (0 = no expira) a la de go-cache.
func ttlFor(ttl time.Duration) time.Duration {
	switch {
	case ttl == 0:
		return gocache.NoExpiration
	case ttl < 0:
		return gocache.DefaultExpiration
	}
	return ttl
}

func (m *memoryClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	// Add falla si la key existe y no expiró; es atómico dentro de go-cache.
	if err := m.c.Add(prefixed(m.prefix, key), value, ttlFor(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memoryClient) Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	k := prefixed(m.prefix, key)

	m.incrMu.Lock()
	defer m.incrMu.Unlock()

	if err := m.c.Add(k, int64(1), ttlFor(ttl)); err == nil {
		return 1, ttl, nil
	}
	n, err := m.c.IncrementInt64(k, 1)
	if err != nil {
		// expiró entre Add e IncrementInt64, o no era un contador
		m.c.Set(k, int64(1), ttlFor(ttl))
		return 1, ttl, nil
	}

	remaining := ttl
	if _, exp, ok := m.c.GetWithExpiration(k); ok && !exp.IsZero() {
		remaining = time.Until(exp)
	}
	return n, remaining, nil
}

func (m *memoryClient) Ping(ctx context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
