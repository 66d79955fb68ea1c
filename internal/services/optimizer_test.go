package services

import (
	"context"
	"errors"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExternal struct {
	fn    func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error)
	calls int
}

func (f *fakeExternal) Optimize(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
	f.calls++
	return f.fn(ctx, stops)
}

func TestOptimizerEndToEndNYC(t *testing.T) {
	stops := nycStops()
	res, err := NewOptimizer(nil, 0).Optimize(context.Background(), stops)
	require.NoError(t, err)

	wantBefore := lowerManhattan.Coords().DistanceKm(bronx.Coords()) + bronx.Coords().DistanceKm(midtown.Coords())
	assert.InDelta(t, wantBefore, res.Before.DistanceKm, 1e-9)

	require.Len(t, res.Tour, 3)
	assert.Equal(t, lowerManhattan, res.Tour[0])
	assert.Equal(t, midtown, res.Tour[1])

	assert.LessOrEqual(t, res.After.DistanceKm, res.Before.DistanceKm)
	assert.Greater(t, res.Savings.DistanceKm, 0.0)
	assert.InDelta(t, res.Savings.DistanceKm/res.Before.DistanceKm*100, res.Savings.Percentage, 1e-9)
	assert.InDelta(t, res.Savings.CarbonKg/21, res.Environmental.TreesEquivalent, 1e-9)
	assert.Equal(t, LocalAlgorithmLabel, res.AlgorithmLabel)
	assert.False(t, res.Fallback)
}

func TestOptimizerTwoStopsNoSavings(t *testing.T) {
	stops := []domain.Stop{lowerManhattan, bronx}
	res, err := NewOptimizer(nil, 0).Optimize(context.Background(), stops)
	require.NoError(t, err)

	assert.Equal(t, domain.Tour(stops), res.Tour)
	assert.Equal(t, res.Before, res.After)
	assert.Equal(t, domain.Savings{}, res.Savings)
	assert.Equal(t, domain.Environmental{}, res.Environmental)
}

func TestOptimizerInsufficientInput(t *testing.T) {
	opt := NewOptimizer(nil, 0)

	for _, stops := range [][]domain.Stop{nil, {lowerManhattan}} {
		res, err := opt.Optimize(context.Background(), stops)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, domain.ErrInsufficientInput)
	}
}

func TestOptimizerMalformedStop(t *testing.T) {
	bad := bronx
	bad.Lat = 123

	_, err := NewOptimizer(nil, 0).Optimize(context.Background(), []domain.Stop{lowerManhattan, bad})

	var mse *domain.MalformedStopError
	require.ErrorAs(t, err, &mse)
	assert.Equal(t, 1, mse.Index)
}

func TestOptimizerDoesNotModifyInput(t *testing.T) {
	stops := nycStops()
	original := slices.Clone(stops)

	_, err := NewOptimizer(nil, 0).Optimize(context.Background(), stops)
	require.NoError(t, err)
	assert.Equal(t, original, stops)
}

func TestOptimizerUsesExternalResult(t *testing.T) {
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		reversed := slices.Clone(stops)
		slices.Reverse(reversed)
		return ports.TourOutcome{Tour: reversed, Label: "Reverse Optimizer"}, nil
	}}

	stops := nycStops()
	res, err := NewOptimizer(ext, time.Second).Optimize(context.Background(), stops)
	require.NoError(t, err)

	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, "Reverse Optimizer", res.AlgorithmLabel)
	assert.False(t, res.Fallback)
	assert.Equal(t, midtown, res.Tour[0])
	assert.InDelta(t, domain.Tour{midtown, bronx, lowerManhattan}.DistanceKm(), res.After.DistanceKm, 1e-9)
}

func TestOptimizerExternalDefaultLabel(t *testing.T) {
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		return ports.TourOutcome{Tour: stops}, nil
	}}

	res, err := NewOptimizer(ext, time.Second).Optimize(context.Background(), nycStops())
	require.NoError(t, err)
	assert.Equal(t, ExternalAlgorithmLabel, res.AlgorithmLabel)
}

func TestOptimizerFallsBackOnExternalError(t *testing.T) {
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		return ports.TourOutcome{}, errors.New("exit status 1")
	}}

	res, err := NewOptimizer(ext, time.Second).Optimize(context.Background(), nycStops())
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, LocalAlgorithmLabel, res.AlgorithmLabel)
	assert.Equal(t, NearestNeighborTour(nycStops()), res.Tour)
}

func TestOptimizerFallsBackOnNonPermutation(t *testing.T) {
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		return ports.TourOutcome{Tour: domain.Tour{stops[0], stops[0], stops[1]}, Label: "Broken"}, nil
	}}

	res, err := NewOptimizer(ext, time.Second).Optimize(context.Background(), nycStops())
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, LocalAlgorithmLabel, res.AlgorithmLabel)
	assert.True(t, res.Tour.IsPermutationOf(nycStops()))
}

func TestOptimizerExternalTimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// Ignores ctx entirely; the optimizer must not wait for it.
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		<-release
		return ports.TourOutcome{Tour: stops, Label: "Too Late"}, nil
	}}

	start := time.Now()
	res, err := NewOptimizer(ext, 50*time.Millisecond).Optimize(context.Background(), nycStops())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, res.Fallback)
	assert.Equal(t, LocalAlgorithmLabel, res.AlgorithmLabel)
}

func TestOptimizerExternalSeesDeadlineNotCallerCancel(t *testing.T) {
	var sawDeadline bool
	var sawErr error
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		_, sawDeadline = ctx.Deadline()
		sawErr = ctx.Err()
		return ports.TourOutcome{Tour: stops, Label: "Identity"}, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewOptimizer(ext, time.Second).Optimize(ctx, nycStops())
	require.NoError(t, err)

	assert.True(t, sawDeadline)
	assert.NoError(t, sawErr)
	assert.Equal(t, "Identity", res.AlgorithmLabel)
}

func TestOptimizerExternalReceivesCopy(t *testing.T) {
	ext := &fakeExternal{fn: func(ctx context.Context, stops []domain.Stop) (ports.TourOutcome, error) {
		stops[0].Lat = 0
		return ports.TourOutcome{}, errors.New("gave up")
	}}

	stops := nycStops()
	res, err := NewOptimizer(ext, time.Second).Optimize(context.Background(), stops)
	require.NoError(t, err)

	assert.Equal(t, nycStops(), stops)
	assert.Equal(t, lowerManhattan, res.Tour[0])
}
