package domain

// Distance, fuel and carbon figures for one specific tour ordering.
type MetricsSnapshot struct {
	DistanceKm float64
	FuelLiters float64
	CarbonKg   float64
}

// Differences between a before and after snapshot.
type Savings struct {
	DistanceKm float64
	FuelLiters float64
	CarbonKg   float64
	Percentage float64
	CostUSD    float64
}

// Environmental equivalents of a saving.
type Environmental struct {
	TreesEquivalent    float64
	CarMilesEquivalent float64
}

// Cluster is one latitude band produced by the clustered optimizer.
type Cluster struct {
	ID    int
	Stops []Stop
}

// VehicleAssignment pairs a cluster with the smallest vehicle able to carry its load.
type VehicleAssignment struct {
	ClusterID   int
	VehicleID   string
	VehicleType string
	Capacity    int
	Load        int
	Utilization float64
}

// OptimizationResult is the outcome of one optimization request.
// All figures keep full floating-point precision; rounding belongs to
// whoever presents the result.
type OptimizationResult struct {
	Before         MetricsSnapshot
	After          MetricsSnapshot
	Savings        Savings
	Environmental  Environmental
	Tour           Tour
	AlgorithmLabel string
	// Fallback is set when an external optimizer was configured but the
	// local heuristic produced the tour.
	Fallback bool
	Clusters []Cluster
	Vehicles []VehicleAssignment
}
