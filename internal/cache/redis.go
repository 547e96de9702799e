package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient implementa Client usando Redis.
type redisClient struct {
	client *redis.Client
	prefix string
}

// NewRedis crea un cliente Redis y verifica la conexión.
func NewRedis(ctx context.Context, cfg Config) (Client, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &redisClient{client: rdb, prefix: cfg.Prefix}, nil
}

func (c *redisClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.SetNX(ctx, prefixed(c.prefix, key), value, ttl).Result()
}

// Incr: fixed window con INCR + PTTL; el primer hit setea la expiración.
func (c *redisClient) Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	k := prefixed(c.prefix, key)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := pttl.Val()
	if incr.Val() == 1 && ttl > 0 {
		if err := c.client.PExpire(ctx, k, ttl).Err(); err != nil {
			return 0, 0, err
		}
		remaining = ttl
	}
	return incr.Val(), remaining, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.client.Close()
}
