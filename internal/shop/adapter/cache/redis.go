package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"veggie-orders/internal/xpkg/config"
	"veggie-orders/pkg/logger"
)

// RedisCache backs the catalog read cache. The service layer treats every
// failure here as a miss, so a dead Redis only costs latency, not
// correctness.
type RedisCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisCache(ctx context.Context, cfg *config.Redis, log logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Action("cache_connected").Info("Connected to Redis", "addr", cfg.Addr)
	return &RedisCache{client: client, log: log}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

func (rc *RedisCache) Del(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
