package services

import (
	"cmp"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"slices"
)

const ClusteredAlgorithmLabel = "Latitude-Band Clustering + Nearest Neighbor with Haversine Distance"

// clusterThreshold is the stop count above which ClusteredTour splits into bands.
const clusterThreshold = 5

// ClusterByLatitude splits stops into numClusters latitude bands.
//
// Stops are sorted by latitude (stable on ties) and chunked into equal bands;
// the last band takes the remainder. With no more stops than clusters each
// stop becomes its own cluster, in input order.
func ClusterByLatitude(stops []domain.Stop, numClusters int) []domain.Cluster {
	if numClusters < 1 {
		numClusters = 1
	}

	if len(stops) <= numClusters {
		clusters := make([]domain.Cluster, 0, len(stops))
		for i, s := range stops {
			clusters = append(clusters, domain.Cluster{ID: i, Stops: []domain.Stop{s}})
		}
		return clusters
	}

	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, func(a, b domain.Stop) int {
		return cmp.Compare(a.Lat, b.Lat)
	})

	size := len(sorted) / numClusters
	clusters := make([]domain.Cluster, 0, numClusters)
	for i := 0; i < numClusters; i++ {
		start := i * size
		end := start + size
		if i == numClusters-1 {
			end = len(sorted)
		}
		clusters = append(clusters, domain.Cluster{ID: i, Stops: sorted[start:end:end]})
	}
	return clusters
}

// ClusteredTour is the advanced strategy served by the optimizer process.
//
// Inputs above five stops are split into min(3, n/3) latitude bands; every
// band is ordered with NearestNeighborTour and the bands are visited in
// order. Each band is then matched to a vehicle from fleet.
func ClusteredTour(stops []domain.Stop, fleet []Vehicle) (ports.TourOutcome, error) {
	if len(stops) == 0 {
		return ports.TourOutcome{}, errors.New("clustered tour: stops must not be empty")
	}

	var clusters []domain.Cluster
	if len(stops) > clusterThreshold {
		clusters = ClusterByLatitude(stops, min(3, len(stops)/3))
	} else {
		clusters = []domain.Cluster{{ID: 0, Stops: slices.Clone(stops)}}
	}

	tour := make(domain.Tour, 0, len(stops))
	for i := range clusters {
		ordered := NearestNeighborTour(clusters[i].Stops)
		clusters[i].Stops = ordered
		tour = append(tour, ordered...)
	}

	vehicles, err := AssignVehicles(clusters, fleet)
	if err != nil {
		return ports.TourOutcome{}, fmt.Errorf("clustered tour: %w", err)
	}

	return ports.TourOutcome{
		Tour:     tour,
		Label:    ClusteredAlgorithmLabel,
		Clusters: clusters,
		Vehicles: vehicles,
	}, nil
}
