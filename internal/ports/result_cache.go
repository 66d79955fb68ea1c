package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
	"time"
)

// Contract for caching optimization results by stop-list fingerprint.
type ResultCache interface {
	// Return ok=false on a miss.
	Get(ctx context.Context, key string) (res *domain.OptimizationResult, ok bool, err error)
	Put(ctx context.Context, key string, res *domain.OptimizationResult, ttl time.Duration) error
}
