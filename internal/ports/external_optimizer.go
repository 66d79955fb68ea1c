package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// TourOutcome is the tour produced by one optimization strategy.
type TourOutcome struct {
	Tour     domain.Tour
	Label    string
	Clusters []domain.Cluster
	Vehicles []domain.VehicleAssignment
}

// Contract for a delegated, more sophisticated optimizer.
// Implementations must stop work when ctx is done and must not return a
// partial tour; every failure should wrap domain.ErrExternalOptimizerUnavailable.
type ExternalOptimizer interface {
	Optimize(ctx context.Context, stops []domain.Stop) (TourOutcome, error)
}
