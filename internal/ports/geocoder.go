package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Contract for resolving street addresses to coordinates.
type Geocoder interface {
	// Return coordinates keyed by the normalized address.
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	Normalize(address string) string
}
