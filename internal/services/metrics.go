package services

import "route-optimizer-service/internal/domain"

// Fixed conversion factors. They do not vary per vehicle.
const (
	FuelLitersPerKm      = 0.12 // 12 L per 100 km
	CarbonKgPerLiter     = 2.68 // diesel
	FuelPriceUSDPerLiter = 1.50
	CarbonKgPerTreeYear  = 21.0
	MilesPerKm           = 0.621371
)

// DeriveSnapshot converts a distance into fuel and carbon figures.
func DeriveSnapshot(distanceKm float64) domain.MetricsSnapshot {
	fuel := distanceKm * FuelLitersPerKm
	return domain.MetricsSnapshot{
		DistanceKm: distanceKm,
		FuelLiters: fuel,
		CarbonKg:   fuel * CarbonKgPerLiter,
	}
}

// DeriveSavings compares two snapshots. Percentage is 0 when before covers no distance.
func DeriveSavings(before, after domain.MetricsSnapshot) domain.Savings {
	s := domain.Savings{
		DistanceKm: before.DistanceKm - after.DistanceKm,
		FuelLiters: before.FuelLiters - after.FuelLiters,
		CarbonKg:   before.CarbonKg - after.CarbonKg,
	}
	if before.DistanceKm > 0 {
		s.Percentage = s.DistanceKm / before.DistanceKm * 100
	}
	s.CostUSD = FuelCostUSD(s.FuelLiters)
	return s
}

func FuelCostUSD(fuelLiters float64) float64 {
	return fuelLiters * FuelPriceUSDPerLiter
}

// DeriveEnvironmental expresses saved carbon as trees and saved distance as car miles.
func DeriveEnvironmental(carbonSavedKg, distanceSavedKm float64) domain.Environmental {
	return domain.Environmental{
		TreesEquivalent:    carbonSavedKg / CarbonKgPerTreeYear,
		CarMilesEquivalent: distanceSavedKm * MilesPerKm,
	}
}
