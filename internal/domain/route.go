package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RouteStatus string

const (
	RouteStatusDraft      RouteStatus = "draft"
	RouteStatusOptimized  RouteStatus = "optimized"
	RouteStatusInProgress RouteStatus = "in-progress"
	RouteStatusCompleted  RouteStatus = "completed"
)

// ParseRouteStatus accepts one of the known status names.
func ParseRouteStatus(s string) (RouteStatus, error) {
	switch st := RouteStatus(s); st {
	case RouteStatusDraft, RouteStatusOptimized, RouteStatusInProgress, RouteStatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown route status %q", s)
}

// Represents a persisted optimization: the stops as submitted and the
// result computed for them.
type RouteRecord struct {
	ID        uuid.UUID
	Name      string
	Stops     []Stop
	Result    *OptimizationResult
	Status    RouteStatus
	CreatedAt time.Time
}

// TotalPackages sums the package quantity over the stored stops.
func (r *RouteRecord) TotalPackages() int {
	return TotalQuantity(r.Stops)
}

// Aggregated savings over all optimized routes.
type RouteSummary struct {
	TotalRoutes     int
	OptimizedRoutes int
	DistanceSavedKm float64
	FuelSavedLiters float64
	CarbonSavedKg   float64
}
