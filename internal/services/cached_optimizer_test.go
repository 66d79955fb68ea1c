package services

import (
	"context"
	"errors"
	"route-optimizer-service/internal/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*domain.OptimizationResult
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*domain.OptimizationResult)}
}

func (m *memoryCache) Get(ctx context.Context, key string) (*domain.OptimizationResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	res, ok := m.entries[key]
	return res, ok, nil
}

func (m *memoryCache) Put(ctx context.Context, key string, res *domain.OptimizationResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = res
	return nil
}

type missCache struct{}

func (missCache) Get(context.Context, string) (*domain.OptimizationResult, bool, error) {
	return nil, false, nil
}

func (missCache) Put(context.Context, string, *domain.OptimizationResult, time.Duration) error {
	return nil
}

type countingOptimizer struct {
	mu       sync.Mutex
	calls    int
	fallback bool
	delay    time.Duration
}

func (c *countingOptimizer) Optimize(ctx context.Context, stops []domain.Stop) (*domain.OptimizationResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	time.Sleep(c.delay)

	res, err := NewOptimizer(nil, 0).Optimize(ctx, stops)
	if err != nil {
		return nil, err
	}
	res.Fallback = c.fallback
	return res, nil
}

func TestCachedOptimizerServesRepeatsFromCache(t *testing.T) {
	next := &countingOptimizer{}
	cache := newMemoryCache()
	opt := NewCachedOptimizer(next, cache, time.Minute)

	first, err := opt.Optimize(context.Background(), nycStops())
	require.NoError(t, err)
	second, err := opt.Optimize(context.Background(), nycStops())
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Len(t, cache.entries, 1)
}

func TestCachedOptimizerDistinguishesOrder(t *testing.T) {
	next := &countingOptimizer{}
	opt := NewCachedOptimizer(next, newMemoryCache(), time.Minute)

	_, err := opt.Optimize(context.Background(), []domain.Stop{lowerManhattan, bronx})
	require.NoError(t, err)
	_, err = opt.Optimize(context.Background(), []domain.Stop{bronx, lowerManhattan})
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedOptimizerSkipsFallbackResults(t *testing.T) {
	next := &countingOptimizer{fallback: true}
	cache := newMemoryCache()
	opt := NewCachedOptimizer(next, cache, time.Minute)

	_, err := opt.Optimize(context.Background(), nycStops())
	require.NoError(t, err)

	assert.Empty(t, cache.entries)
}

func TestCachedOptimizerIgnoresCacheErrors(t *testing.T) {
	next := &countingOptimizer{}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	opt := NewCachedOptimizer(next, cache, time.Minute)

	res, err := opt.Optimize(context.Background(), nycStops())
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestCachedOptimizerValidatesBeforeLookup(t *testing.T) {
	next := &countingOptimizer{}
	opt := NewCachedOptimizer(next, newMemoryCache(), time.Minute)

	_, err := opt.Optimize(context.Background(), []domain.Stop{lowerManhattan})
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)
	assert.Equal(t, 0, next.calls)
}

func TestFingerprintStable(t *testing.T) {
	a, err := Fingerprint(nycStops())
	require.NoError(t, err)
	b, err := Fingerprint(nycStops())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a, fingerprintPrefix)
}

func TestCachedOptimizerCoalescesConcurrentRequests(t *testing.T) {
	next := &countingOptimizer{delay: 200 * time.Millisecond}
	opt := NewCachedOptimizer(next, missCache{}, time.Minute)

	const callers = 8
	start := make(chan struct{})
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := opt.Optimize(context.Background(), nycStops())
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	next.mu.Lock()
	defer next.mu.Unlock()
	assert.Equal(t, 1, next.calls)
}
