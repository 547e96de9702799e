// Package rate implementa un rate limiter fixed-window sobre el cache del servicio.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Counter es el contador atómico con expiración que necesita el limiter.
// cache.Client lo implementa tanto en memoria como en Redis.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
}

// WindowLimiter: fixed window sencillo. Una key por ventana.
type WindowLimiter struct {
	counter Counter
	prefix  string
	max     int64
	window  time.Duration
	now     func() time.Time
}

// NewWindowLimiter permite max hits por key cada window.
func NewWindowLimiter(counter Counter, prefix string, max int, window time.Duration) *WindowLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{
		counter: counter,
		prefix:  prefix,
		max:     int64(max),
		window:  window,
		now:     time.Now,
	}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, ttl, err := l.counter.Incr(ctx, k, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
