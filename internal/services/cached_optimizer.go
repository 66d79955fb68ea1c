package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"time"

	"golang.org/x/sync/singleflight"
)

const fingerprintPrefix = "optimize:v1:"

// Fingerprint returns a cache key for an ordered stop list.
func Fingerprint(stops []domain.Stop) (string, error) {
	b, err := json.Marshal(stops)
	if err != nil {
		return "", fmt.Errorf("fingerprint stops: %w", err)
	}
	sum := sha256.Sum256(b)
	return fingerprintPrefix + hex.EncodeToString(sum[:]), nil
}

// CachedOptimizer memoizes results of another Optimizer and coalesces
// identical concurrent requests. Cache failures are logged, never returned.
// Fallback results are not cached so a recovered external optimizer is used
// again on the next request.
type CachedOptimizer struct {
	next  ports.Optimizer
	cache ports.ResultCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedOptimizer(next ports.Optimizer, cache ports.ResultCache, ttl time.Duration) *CachedOptimizer {
	return &CachedOptimizer{next: next, cache: cache, ttl: ttl}
}

func (c *CachedOptimizer) Optimize(ctx context.Context, stops []domain.Stop) (*domain.OptimizationResult, error) {
	if err := ValidateStops(stops); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	key, err := Fingerprint(stops)
	if err != nil {
		return nil, err
	}

	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("req_id=%s op=result.cache.Get err=%v", obs.RequestID(ctx), err)
	} else if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		res, err := c.next.Optimize(ctx, stops)
		if err != nil {
			return nil, err
		}

		if !res.Fallback {
			if err := c.cache.Put(ctx, key, res, c.ttl); err != nil {
				log.Printf("req_id=%s op=result.cache.Put err=%v", obs.RequestID(ctx), err)
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.OptimizationResult), nil
}
