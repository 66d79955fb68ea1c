package domain

import (
	"fmt"
	"math"
)

// Represents a single delivery location and the number of packages
// dropped there. Stops are plain values: reordering a tour never
// mutates the caller's slice.
type Stop struct {
	ID       string
	Name     string
	Address  string
	Lat      float64
	Lon      float64
	Quantity int
}

func (s Stop) Coords() Coordinates { return Coordinates{Lat: s.Lat, Lon: s.Lon} }

// Validate reports why a stop cannot be routed, or nil.
func (s Stop) Validate() error {
	switch {
	case math.IsNaN(s.Lat) || math.IsInf(s.Lat, 0):
		return fmt.Errorf("latitude must be a finite number")
	case math.IsNaN(s.Lon) || math.IsInf(s.Lon, 0):
		return fmt.Errorf("longitude must be a finite number")
	case s.Lat < -90 || s.Lat > 90:
		return fmt.Errorf("latitude %v out of range [-90, 90]", s.Lat)
	case s.Lon < -180 || s.Lon > 180:
		return fmt.Errorf("longitude %v out of range [-180, 180]", s.Lon)
	case s.Quantity < 1:
		return fmt.Errorf("quantity must be at least 1, got %d", s.Quantity)
	}
	return nil
}

// TotalQuantity sums package counts over stops.
func TotalQuantity(stops []Stop) int {
	total := 0
	for _, s := range stops {
		total += s.Quantity
	}
	return total
}
