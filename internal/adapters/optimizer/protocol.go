package optimizer

import (
	"encoding/json"
	"fmt"
	"io"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// StopJSON is the wire form of a stop shared by the process and HTTP strategies.
type StopJSON struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Quantity  int     `json:"quantity"`
}

// Request is written to the external optimizer.
type Request struct {
	Routes []StopJSON `json:"routes"`
}

type ClusterJSON struct {
	ID    int        `json:"id"`
	Stops []StopJSON `json:"stops"`
}

type VehicleJSON struct {
	ClusterID   int     `json:"clusterId"`
	VehicleID   string  `json:"vehicleId"`
	VehicleType string  `json:"type"`
	Capacity    int     `json:"capacity"`
	Load        int     `json:"load"`
	Utilization float64 `json:"utilization"`
}

// Response is read back from the external optimizer.
//
// Clusters and vehicles are kept raw: optimizers that report them in another
// shape still produce a usable tour.
type Response struct {
	Success         bool            `json:"success"`
	Optimizer       string          `json:"optimizer,omitempty"`
	OptimizedRoutes []StopJSON      `json:"optimizedRoutes"`
	Clusters        json.RawMessage `json:"clusters,omitempty"`
	Vehicles        json.RawMessage `json:"vehicles,omitempty"`
	TotalPackages   int             `json:"totalPackages"`
	TotalLocations  int             `json:"totalLocations"`
	Error           string          `json:"error,omitempty"`
}

func stopToJSON(s domain.Stop) StopJSON {
	return StopJSON{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Lat,
		Longitude: s.Lon,
		Quantity:  s.Quantity,
	}
}

func (s StopJSON) toDomain() domain.Stop {
	return domain.Stop{
		ID:       s.ID,
		Name:     s.Name,
		Address:  s.Address,
		Lat:      s.Latitude,
		Lon:      s.Longitude,
		Quantity: s.Quantity,
	}
}

func stopsToJSON(stops []domain.Stop) []StopJSON {
	out := make([]StopJSON, 0, len(stops))
	for _, s := range stops {
		out = append(out, stopToJSON(s))
	}
	return out
}

func stopsFromJSON(in []StopJSON) []domain.Stop {
	out := make([]domain.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, s.toDomain())
	}
	return out
}

func NewRequest(stops []domain.Stop) Request {
	return Request{Routes: stopsToJSON(stops)}
}

// Stops returns the requested stops in input order.
func (r Request) Stops() []domain.Stop {
	return stopsFromJSON(r.Routes)
}

// NewResponse encodes a successful outcome.
func NewResponse(outcome ports.TourOutcome) (Response, error) {
	res := Response{
		Success:         true,
		Optimizer:       outcome.Label,
		OptimizedRoutes: stopsToJSON(outcome.Tour),
		TotalPackages:   domain.TotalQuantity(outcome.Tour),
		TotalLocations:  len(outcome.Tour),
	}

	if len(outcome.Clusters) > 0 {
		clusters := make([]ClusterJSON, 0, len(outcome.Clusters))
		for _, c := range outcome.Clusters {
			clusters = append(clusters, ClusterJSON{ID: c.ID, Stops: stopsToJSON(c.Stops)})
		}
		b, err := json.Marshal(clusters)
		if err != nil {
			return Response{}, fmt.Errorf("encode clusters: %w", err)
		}
		res.Clusters = b
	}

	if len(outcome.Vehicles) > 0 {
		vehicles := make([]VehicleJSON, 0, len(outcome.Vehicles))
		for _, v := range outcome.Vehicles {
			vehicles = append(vehicles, VehicleJSON{
				ClusterID:   v.ClusterID,
				VehicleID:   v.VehicleID,
				VehicleType: v.VehicleType,
				Capacity:    v.Capacity,
				Load:        v.Load,
				Utilization: v.Utilization,
			})
		}
		b, err := json.Marshal(vehicles)
		if err != nil {
			return Response{}, fmt.Errorf("encode vehicles: %w", err)
		}
		res.Vehicles = b
	}

	return res, nil
}

// NewErrorResponse encodes a failure message.
func NewErrorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// DecodeResponse parses an optimizer reply into a TourOutcome.
// Every failure wraps domain.ErrExternalOptimizerUnavailable.
func DecodeResponse(r io.Reader) (ports.TourOutcome, error) {
	var res Response
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return ports.TourOutcome{}, fmt.Errorf("%w: decode response: %w", domain.ErrExternalOptimizerUnavailable, err)
	}

	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "success=false"
		}
		return ports.TourOutcome{}, fmt.Errorf("%w: optimizer reported: %s", domain.ErrExternalOptimizerUnavailable, msg)
	}

	if len(res.OptimizedRoutes) == 0 {
		return ports.TourOutcome{}, fmt.Errorf("%w: response has no optimizedRoutes", domain.ErrExternalOptimizerUnavailable)
	}

	outcome := ports.TourOutcome{
		Tour:  stopsFromJSON(res.OptimizedRoutes),
		Label: res.Optimizer,
	}

	var clusters []ClusterJSON
	if len(res.Clusters) > 0 && json.Unmarshal(res.Clusters, &clusters) == nil {
		for _, c := range clusters {
			outcome.Clusters = append(outcome.Clusters, domain.Cluster{ID: c.ID, Stops: stopsFromJSON(c.Stops)})
		}
	}

	var vehicles []VehicleJSON
	if len(res.Vehicles) > 0 && json.Unmarshal(res.Vehicles, &vehicles) == nil {
		for _, v := range vehicles {
			outcome.Vehicles = append(outcome.Vehicles, domain.VehicleAssignment{
				ClusterID:   v.ClusterID,
				VehicleID:   v.VehicleID,
				VehicleType: v.VehicleType,
				Capacity:    v.Capacity,
				Load:        v.Load,
				Utilization: v.Utilization,
			})
		}
	}

	return outcome, nil
}
