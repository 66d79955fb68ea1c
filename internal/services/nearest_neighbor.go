package services

import (
	"math"
	"route-optimizer-service/internal/domain"
	"slices"
)

// NearestNeighborTour orders stops using a greedy nearest-neighbor walk.
//
// The walk starts at the first stop and always extends to the closest
// unvisited stop by haversine distance. It does not attempt global route
// optimization. Ties go to the stop that appears first in input order,
// so the output is deterministic for a given input.
//
// The input slice is never modified.
func NearestNeighborTour(stops []domain.Stop) domain.Tour {
	tour := make(domain.Tour, 0, len(stops))
	if len(stops) <= 1 {
		return append(tour, stops...)
	}

	tour = append(tour, stops[0])
	remaining := slices.Clone(stops[1:])

	for len(remaining) > 0 {
		current := tour[len(tour)-1].Coords()

		bestIdx := 0
		minDist := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		// Strict comparison keeps the first stop on ties.
		for i, s := range remaining {
			d := current.DistanceKm(s.Coords())
			if d < minDist {
				minDist = d
				bestIdx = i
			}
		}

		tour = append(tour, remaining[bestIdx])
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return tour
}
