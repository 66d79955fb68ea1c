package domain

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by all distance figures.
const EarthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// CoordinatesFromList reads a GeoJSON [lon, lat] pair as returned by ORS.
func CoordinatesFromList(lonLat []float64) (Coordinates, error) {
	if len(lonLat) != 2 {
		return Coordinates{}, fmt.Errorf("coordinate pair must have 2 elements, got %d", len(lonLat))
	}
	return Coordinates{Lon: lonLat[0], Lat: lonLat[1]}, nil
}

// DistanceKm returns the great-circle distance to other in kilometers.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	return HaversineKm(c.Lat, c.Lon, other.Lat, other.Lon)
}

// HaversineKm computes the great-circle surface distance in kilometers
// between two points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Rounding can push a marginally outside [0,1] for antipodal points.
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}
