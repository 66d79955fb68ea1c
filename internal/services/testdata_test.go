package services

import "route-optimizer-service/internal/domain"

var (
	lowerManhattan = domain.Stop{Name: "Lower Manhattan", Lat: 40.7128, Lon: -74.0060, Quantity: 5}
	bronx          = domain.Stop{Name: "Bronx", Lat: 40.8584, Lon: -73.9285, Quantity: 5}
	midtown        = domain.Stop{Name: "Midtown", Lat: 40.7489, Lon: -73.9680, Quantity: 8}
)

func nycStops() []domain.Stop {
	return []domain.Stop{lowerManhattan, bronx, midtown}
}
