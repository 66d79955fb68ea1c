package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKmSelfDistanceIsZero(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lon: 0},
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 90, Lon: 0},
		{Lat: -90, Lon: 180},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, p.DistanceKm(p), "self distance for %+v", p)
	}
}

func TestHaversineKmSymmetric(t *testing.T) {
	points := []Coordinates{
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: 40.8584, Lon: -73.9285},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 0, Lon: 179.9999},
		{Lat: 0, Lon: -179.9999},
	}

	for _, a := range points {
		for _, b := range points {
			assert.InDelta(t, a.DistanceKm(b), b.DistanceKm(a), 1e-9, "%+v <-> %+v", a, b)
		}
	}
}

func TestHaversineKmKnownDistances(t *testing.T) {
	// One degree of longitude on the equator.
	oneDegree := HaversineKm(0, 0, 0, 1)
	assert.InDelta(t, EarthRadiusKm*math.Pi/180, oneDegree, 1e-9)

	// New York to London is roughly 5570 km.
	nyLondon := HaversineKm(40.7128, -74.0060, 51.5074, -0.1278)
	assert.InDelta(t, 5570, nyLondon, 10)
}

func TestHaversineKmAntipodalIsFinite(t *testing.T) {
	d := HaversineKm(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)

	poles := HaversineKm(90, 0, -90, 0)
	assert.InDelta(t, math.Pi*EarthRadiusKm, poles, 1e-6)
}

func TestHaversineKmNearZero(t *testing.T) {
	d := HaversineKm(10, 10, 10, 10.0000001)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 0.001)
}

func TestCoordinatesFromList(t *testing.T) {
	c, err := CoordinatesFromList([]float64{-73.9857, 40.7484})
	assert.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 40.7484, Lon: -73.9857}, c)

	for _, bad := range [][]float64{nil, {1}, {1, 2, 3}} {
		_, err := CoordinatesFromList(bad)
		assert.Error(t, err, "%v", bad)
	}
}
