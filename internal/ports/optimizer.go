package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Optimizer turns an ordered stop list into an OptimizationResult.
// Returned results must be treated as read-only; they may be shared.
type Optimizer interface {
	Optimize(ctx context.Context, stops []domain.Stop) (*domain.OptimizationResult, error)
}
