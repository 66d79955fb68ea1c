package dto

import (
	"route-optimizer-service/internal/domain"
	"strconv"
)

// StopRequest is a stop as submitted by clients. Latitude and longitude may
// be omitted when address is set.
type StopRequest struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Quantity  int      `json:"quantity"`
}

type OptimizeRequest struct {
	Routes         []StopRequest `json:"routes"`
	SaveToDatabase bool          `json:"saveToDatabase"`
	RouteName      string        `json:"routeName"`
}

type MetricsResponse struct {
	Distance string `json:"distance"`
	Fuel     string `json:"fuel"`
	Carbon   string `json:"carbon"`
}

type SavingsResponse struct {
	Distance   string `json:"distance"`
	Fuel       string `json:"fuel"`
	Carbon     string `json:"carbon"`
	Percentage string `json:"percentage"`
	Cost       string `json:"cost"`
}

type EnvironmentalResponse struct {
	TreesPlanted      string `json:"treesPlanted"`
	CarMilesNotDriven string `json:"carMilesNotDriven"`
}

type StopResponse struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Quantity  int     `json:"quantity"`
}

type ClusterResponse struct {
	ID    int            `json:"id"`
	Stops []StopResponse `json:"stops"`
}

type VehicleResponse struct {
	ClusterID   int    `json:"clusterId"`
	VehicleID   string `json:"vehicleId"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity"`
	Load        int    `json:"load"`
	Utilization string `json:"utilization"`
}

type SavedRouteResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OptimizeResponse struct {
	Before          MetricsResponse       `json:"before"`
	After           MetricsResponse       `json:"after"`
	Savings         SavingsResponse       `json:"savings"`
	Environmental   EnvironmentalResponse `json:"environmental"`
	Optimizer       string                `json:"optimizer"`
	Fallback        bool                  `json:"fallback"`
	OptimizedRoutes []StopResponse        `json:"optimizedRoutes"`
	Clusters        []ClusterResponse     `json:"clusters,omitempty"`
	Vehicles        []VehicleResponse     `json:"vehicles,omitempty"`
	SavedRoute      *SavedRouteResponse   `json:"savedRoute,omitempty"`
}

// Fixed formats a figure for output. Negative zero prints as zero.
func Fixed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s[0] == '-' {
		if z, err := strconv.ParseFloat(s, 64); err == nil && z == 0 {
			return s[1:]
		}
	}
	return s
}

func NewMetricsResponse(m domain.MetricsSnapshot) MetricsResponse {
	return MetricsResponse{
		Distance: Fixed(m.DistanceKm, 2),
		Fuel:     Fixed(m.FuelLiters, 2),
		Carbon:   Fixed(m.CarbonKg, 2),
	}
}

func NewEnvironmentalResponse(e domain.Environmental) EnvironmentalResponse {
	return EnvironmentalResponse{
		TreesPlanted:      Fixed(e.TreesEquivalent, 2),
		CarMilesNotDriven: Fixed(e.CarMilesEquivalent, 2),
	}
}

func NewStopResponses(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, StopResponse{
			ID:        s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Latitude:  s.Lat,
			Longitude: s.Lon,
			Quantity:  s.Quantity,
		})
	}
	return out
}

// NewOptimizeResponse is the single place results are rounded.
func NewOptimizeResponse(res *domain.OptimizationResult) OptimizeResponse {
	out := OptimizeResponse{
		Before: NewMetricsResponse(res.Before),
		After:  NewMetricsResponse(res.After),
		Savings: SavingsResponse{
			Distance:   Fixed(res.Savings.DistanceKm, 2),
			Fuel:       Fixed(res.Savings.FuelLiters, 2),
			Carbon:     Fixed(res.Savings.CarbonKg, 2),
			Percentage: Fixed(res.Savings.Percentage, 1),
			Cost:       Fixed(res.Savings.CostUSD, 2),
		},
		Environmental:   NewEnvironmentalResponse(res.Environmental),
		Optimizer:       res.AlgorithmLabel,
		Fallback:        res.Fallback,
		OptimizedRoutes: NewStopResponses(res.Tour),
	}

	for _, c := range res.Clusters {
		out.Clusters = append(out.Clusters, ClusterResponse{ID: c.ID, Stops: NewStopResponses(c.Stops)})
	}
	for _, v := range res.Vehicles {
		out.Vehicles = append(out.Vehicles, VehicleResponse{
			ClusterID:   v.ClusterID,
			VehicleID:   v.VehicleID,
			Type:        v.VehicleType,
			Capacity:    v.Capacity,
			Load:        v.Load,
			Utilization: Fixed(v.Utilization, 1),
		})
	}

	return out
}
