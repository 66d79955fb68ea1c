package optimizer

import (
	"encoding/json"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stopA = domain.Stop{ID: "a", Name: "Lower Manhattan", Lat: 40.7128, Lon: -74.0060, Quantity: 5}
	stopB = domain.Stop{ID: "b", Name: "Bronx", Lat: 40.8584, Lon: -73.9285, Quantity: 5}
	stopC = domain.Stop{ID: "c", Name: "Midtown", Lat: 40.7489, Lon: -73.9680, Quantity: 8}
)

func TestRequestWireFormat(t *testing.T) {
	b, err := json.Marshal(NewRequest([]domain.Stop{{Lat: 1.5, Lon: 2.5, Quantity: 3}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"routes":[{"latitude":1.5,"longitude":2.5,"quantity":3}]}`, string(b))
}

func TestResponseCarriesOutcome(t *testing.T) {
	want := ports.TourOutcome{
		Tour:     domain.Tour{stopA, stopC, stopB},
		Label:    "Clustered",
		Clusters: []domain.Cluster{{ID: 0, Stops: []domain.Stop{stopA, stopC, stopB}}},
		Vehicles: []domain.VehicleAssignment{{ClusterID: 0, VehicleID: "VAN-001", VehicleType: "Small Van", Capacity: 20, Load: 18, Utilization: 90}},
	}

	res, err := NewResponse(want)
	require.NoError(t, err)
	assert.Equal(t, 18, res.TotalPackages)
	assert.Equal(t, 3, res.TotalLocations)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	got, err := DecodeResponse(strings.NewReader(string(b)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeResponseToleratesForeignClusterShape(t *testing.T) {
	body := `{
		"success": true,
		"optimizer": "Python K-means Clustering",
		"clusters": {"count": 1, "details": {"0": {"routes": 2}}},
		"vehicles": {"0": {"vehicle": "VAN-001"}},
		"optimizedRoutes": [
			{"latitude": 40.7128, "longitude": -74.006, "quantity": 5},
			{"latitude": 40.8584, "longitude": -73.9285, "quantity": 5}
		]
	}`

	got, err := DecodeResponse(strings.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, got.Tour, 2)
	assert.Equal(t, "Python K-means Clustering", got.Label)
	assert.Nil(t, got.Clusters)
	assert.Nil(t, got.Vehicles)
}

func TestDecodeResponseFailures(t *testing.T) {
	cases := map[string]string{
		"garbage":        `not json`,
		"unsuccessful":   `{"success": false, "error": "No routes provided"}`,
		"error only":     `{"error": "Optimization failed"}`,
		"empty tour":     `{"success": true, "optimizedRoutes": []}`,
		"empty document": ``,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResponse(strings.NewReader(body))
			assert.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
		})
	}
}

func TestHandle(t *testing.T) {
	reverse := func(stops []domain.Stop) (ports.TourOutcome, error) {
		tour := make(domain.Tour, 0, len(stops))
		for i := len(stops) - 1; i >= 0; i-- {
			tour = append(tour, stops[i])
		}
		return ports.TourOutcome{Tour: tour, Label: "reverse"}, nil
	}

	b, err := json.Marshal(NewRequest([]domain.Stop{stopA, stopB}))
	require.NoError(t, err)

	res := Handle(json.NewDecoder(strings.NewReader(string(b))), reverse)
	require.True(t, res.Success)
	assert.Equal(t, "b", res.OptimizedRoutes[0].ID)

	res = Handle(json.NewDecoder(strings.NewReader(`{"routes":[]}`)), reverse)
	assert.False(t, res.Success)
	assert.Equal(t, "no routes provided", res.Error)

	b, err = json.Marshal(NewRequest([]domain.Stop{stopA}))
	require.NoError(t, err)
	res = Handle(json.NewDecoder(strings.NewReader(string(b))), reverse)
	assert.False(t, res.Success)
	assert.Equal(t, "at least 2 routes required for optimization", res.Error)

	res = Handle(json.NewDecoder(strings.NewReader(`{`)), reverse)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid JSON input")
}
