package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResultCache stores optimization results as JSON values.
type RedisResultCache struct {
	Client *redis.Client
}

// NewRedisResultCache connects to the server named by a redis:// URL.
func NewRedisResultCache(ctx context.Context, redisURL string) (*RedisResultCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("result cache: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("result cache: ping redis: %w", err)
	}

	return &RedisResultCache{Client: client}, nil
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (_ *domain.OptimizationResult, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.Get")(&err)

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result cache key=%q: %w", key, err)
	}

	var res domain.OptimizationResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false, fmt.Errorf("decode result cache key=%q: %w", key, err)
	}

	return &res, true, nil
}

func (c *RedisResultCache) Put(ctx context.Context, key string, res *domain.OptimizationResult, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "result.cache.Put")(&err)

	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result cache key=%q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("set result cache key=%q: %w", key, err)
	}

	return nil
}

func (c *RedisResultCache) Close() error {
	return c.Client.Close()
}
