package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"slices"
	"time"
)

const (
	LocalAlgorithmLabel    = "Nearest Neighbor with Haversine Distance"
	ExternalAlgorithmLabel = "External Optimizer"

	DefaultExternalTimeout = 30 * time.Second
)

// Optimizer computes before/after metrics for a stop list.
//
// When an external optimizer is configured it is tried first, bounded by
// timeout; any failure falls back to NearestNeighborTour. Exactly one of the
// two tours is used per request. Optimizer holds no mutable state and is
// safe for concurrent use.
type Optimizer struct {
	external ports.ExternalOptimizer
	timeout  time.Duration
}

// NewOptimizer returns an Optimizer. external may be nil; timeout <= 0 selects
// DefaultExternalTimeout.
func NewOptimizer(external ports.ExternalOptimizer, timeout time.Duration) *Optimizer {
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	return &Optimizer{external: external, timeout: timeout}
}

// ValidateStops rejects inputs the core cannot route.
func ValidateStops(stops []domain.Stop) error {
	if len(stops) < 2 {
		return domain.ErrInsufficientInput
	}
	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return &domain.MalformedStopError{Index: i, Reason: err.Error()}
		}
	}
	return nil
}

// Optimize validates stops, builds a tour and derives savings against the input order.
// The only errors are ErrInsufficientInput and *MalformedStopError.
func (o *Optimizer) Optimize(ctx context.Context, stops []domain.Stop) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if err := ValidateStops(stops); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	input := slices.Clone(stops)
	before := DeriveSnapshot(domain.Tour(input).DistanceKm())

	outcome, fallback := o.buildTour(ctx, input)

	after := DeriveSnapshot(outcome.Tour.DistanceKm())
	savings := DeriveSavings(before, after)

	return &domain.OptimizationResult{
		Before:         before,
		After:          after,
		Savings:        savings,
		Environmental:  DeriveEnvironmental(savings.CarbonKg, savings.DistanceKm),
		Tour:           outcome.Tour,
		AlgorithmLabel: outcome.Label,
		Fallback:       fallback,
		Clusters:       outcome.Clusters,
		Vehicles:       outcome.Vehicles,
	}, nil
}

// buildTour reports fallback=true when the external strategy was tried and failed.
func (o *Optimizer) buildTour(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, bool) {
	if o.external == nil {
		return localOutcome(stops), false
	}

	outcome, err := o.runExternal(ctx, stops)
	if err != nil {
		log.Printf("req_id=%s op=optimizer.external fallback=local err=%v", obs.RequestID(ctx), err)
		return localOutcome(stops), true
	}
	return outcome, false
}

func localOutcome(stops []domain.Stop) ports.TourOutcome {
	return ports.TourOutcome{
		Tour:  NearestNeighborTour(stops),
		Label: LocalAlgorithmLabel,
	}
}

type externalResult struct {
	outcome ports.TourOutcome
	err     error
}

// runExternal never outlives o.timeout, even if the strategy ignores ctx.
// Caller cancellation is not propagated; request-scoped values are.
func (o *Optimizer) runExternal(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer cancel()

	done := make(chan externalResult, 1)
	go func(in []domain.Stop) {
		out, err := o.external.Optimize(ctx, in)
		done <- externalResult{outcome: out, err: err}
	}(slices.Clone(stops))

	var res externalResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return ports.TourOutcome{}, fmt.Errorf("%w: %w", domain.ErrExternalOptimizerUnavailable, ctx.Err())
	}

	if res.err != nil {
		if errors.Is(res.err, domain.ErrExternalOptimizerUnavailable) {
			return ports.TourOutcome{}, res.err
		}
		return ports.TourOutcome{}, fmt.Errorf("%w: %w", domain.ErrExternalOptimizerUnavailable, res.err)
	}

	if !res.outcome.Tour.IsPermutationOf(stops) {
		return ports.TourOutcome{}, fmt.Errorf(
			"%w: returned %d stops that are not a permutation of the %d input stops",
			domain.ErrExternalOptimizerUnavailable, len(res.outcome.Tour), len(stops),
		)
	}

	if res.outcome.Label == "" {
		res.outcome.Label = ExternalAlgorithmLabel
	}
	return res.outcome, nil
}
