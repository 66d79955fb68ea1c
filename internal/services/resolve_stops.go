package services

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
)

// StopInput is a stop as submitted by a client. Coordinates may be missing
// when the stop carries an address instead.
type StopInput struct {
	Stop      domain.Stop
	HasCoords bool
}

// ResolveStops fills missing coordinates by geocoding addresses.
//
// Stops that have neither coordinates nor a resolvable address produce a
// *domain.MalformedStopError. Geocoder failures are returned wrapped.
// geocoder may be nil, in which case every stop must carry coordinates.
func ResolveStops(ctx context.Context, geocoder ports.Geocoder, inputs []StopInput) ([]domain.Stop, error) {
	stops := make([]domain.Stop, len(inputs))

	pending := make(map[int]string)
	addresses := make([]string, 0)
	for i, in := range inputs {
		stops[i] = in.Stop
		if in.HasCoords {
			continue
		}

		if strings.TrimSpace(in.Stop.Address) == "" {
			return nil, &domain.MalformedStopError{Index: i, Reason: "latitude and longitude are required when no address is given"}
		}
		if geocoder == nil {
			return nil, &domain.MalformedStopError{Index: i, Reason: "latitude and longitude are required (address lookup is not configured)"}
		}

		norm := geocoder.Normalize(in.Stop.Address)
		pending[i] = norm
		addresses = append(addresses, norm)
	}

	if len(pending) == 0 {
		return stops, nil
	}

	coords, err := geocoder.GeocodeMany(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("resolve stops: geocode %d addresses: %w", len(addresses), err)
	}

	for i := range stops {
		norm, ok := pending[i]
		if !ok {
			continue
		}
		c, found := coords[norm]
		if !found {
			return nil, &domain.MalformedStopError{Index: i, Reason: fmt.Sprintf("address %q could not be located", stops[i].Address)}
		}
		stops[i].Lat = c.Lat
		stops[i].Lon = c.Lon
	}

	return stops, nil
}
