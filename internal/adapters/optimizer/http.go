package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/httpx"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
)

const maxResponseBytes = 8 << 20

// HTTPOptimizer posts the optimizer request to a remote service.
type HTTPOptimizer struct {
	session *http.Client
	url     string
}

// NewHTTPOptimizer returns a strategy that POSTs to url. The overall deadline
// comes from the caller's context.
func NewHTTPOptimizer(url string) (*HTTPOptimizer, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("http optimizer: url is empty")
	}
	return &HTTPOptimizer{session: &http.Client{}, url: url}, nil
}

func (h *HTTPOptimizer) Optimize(ctx context.Context, stops []domain.Stop) (_ ports.TourOutcome, err error) {
	defer obs.Time(ctx, "optimizer.http")(&err)

	payload, err := json.Marshal(NewRequest(stops))
	if err != nil {
		return ports.TourOutcome{}, fmt.Errorf("%w: encode request: %w", domain.ErrExternalOptimizerUnavailable, err)
	}

	resp, err := httpx.DoWithRetry(ctx, h.session, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if id := obs.RequestID(ctx); id != "" {
			req.Header.Set("X-Request-ID", id)
		}
		return req, nil
	})
	if err != nil {
		return ports.TourOutcome{}, fmt.Errorf("%w: post %s: %w", domain.ErrExternalOptimizerUnavailable, h.url, err)
	}
	defer resp.Body.Close()

	return DecodeResponse(io.LimitReader(resp.Body, maxResponseBytes))
}
