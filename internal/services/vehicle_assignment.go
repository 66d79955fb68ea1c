package services

import (
	"errors"
	"route-optimizer-service/internal/domain"
	"slices"
)

// Vehicle is a fleet entry available to the clustered optimizer.
type Vehicle struct {
	ID       string
	Type     string
	Capacity int
}

// DefaultFleet lists the vehicles the optimizer process assigns from.
var DefaultFleet = []Vehicle{
	{ID: "VAN-001", Type: "Small Van", Capacity: 20},
	{ID: "VAN-002", Type: "Medium Van", Capacity: 50},
	{ID: "TRUCK-001", Type: "Large Truck", Capacity: 100},
}

// AssignVehicles gives each cluster the smallest vehicle whose capacity
// covers the cluster's package load.
//
// When no vehicle is large enough the largest one is used and utilization
// exceeds 100. Vehicles may serve several clusters; this is a labeling step,
// not capacity-constrained routing.
func AssignVehicles(clusters []domain.Cluster, fleet []Vehicle) ([]domain.VehicleAssignment, error) {
	if len(fleet) == 0 {
		return nil, errors.New("assign vehicles: fleet must not be empty")
	}

	// Sort by capacity so the first fit is the smallest fit.
	byCapacity := slices.Clone(fleet)
	slices.SortFunc(byCapacity, func(a, b Vehicle) int {
		if a.Capacity < b.Capacity {
			return -1
		}
		if a.Capacity > b.Capacity {
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	largest := byCapacity[len(byCapacity)-1]

	out := make([]domain.VehicleAssignment, 0, len(clusters))
	for _, c := range clusters {
		load := domain.TotalQuantity(c.Stops)

		chosen := largest
		for _, v := range byCapacity {
			if v.Capacity >= load {
				chosen = v
				break
			}
		}

		var utilization float64
		if chosen.Capacity > 0 {
			utilization = float64(load) / float64(chosen.Capacity) * 100
		}

		out = append(out, domain.VehicleAssignment{
			ClusterID:   c.ID,
			VehicleID:   chosen.ID,
			VehicleType: chosen.Type,
			Capacity:    chosen.Capacity,
			Load:        load,
			Utilization: utilization,
		})
	}

	return out, nil
}
