package dto

import (
	"route-optimizer-service/internal/domain"
	"time"
)

type RouteResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Status        string            `json:"status"`
	Optimized     bool              `json:"optimized"`
	TotalPackages int               `json:"totalPackages"`
	Locations     []StopResponse    `json:"locations"`
	Results       *OptimizeResponse `json:"optimizationResults,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type PaginationResponse struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type ListRoutesResponse struct {
	Routes     []RouteResponse    `json:"routes"`
	Pagination PaginationResponse `json:"pagination"`
}

type UpdateRouteRequest struct {
	Status string `json:"status"`
}

type TotalSavingsResponse struct {
	Distance string `json:"distance"`
	Fuel     string `json:"fuel"`
	Carbon   string `json:"carbon"`
	Cost     string `json:"cost"`
}

type SummaryResponse struct {
	TotalRoutes     int                   `json:"totalRoutes"`
	OptimizedRoutes int                   `json:"optimizedRoutes"`
	TotalSavings    TotalSavingsResponse  `json:"totalSavings"`
	Environmental   EnvironmentalResponse `json:"environmental"`
}

func NewRouteResponse(rec *domain.RouteRecord) RouteResponse {
	out := RouteResponse{
		ID:            rec.ID.String(),
		Name:          rec.Name,
		Status:        string(rec.Status),
		Optimized:     rec.Result != nil,
		TotalPackages: rec.TotalPackages(),
		Locations:     NewStopResponses(rec.Stops),
		CreatedAt:     rec.CreatedAt,
	}
	if rec.Result != nil {
		res := NewOptimizeResponse(rec.Result)
		out.Results = &res
	}
	return out
}
