package ports

import (
	"context"
	"errors"
	"route-optimizer-service/internal/domain"

	"github.com/google/uuid"
)

var ErrRouteNotFound = errors.New("route not found")

// DefaultRouteLimit is the page size used when RouteFilter.Limit is not positive.
const DefaultRouteLimit = 50

type RouteFilter struct {
	Status domain.RouteStatus
	Limit  int
	Offset int
}

// Port: a boundary for storing and retrieving optimized routes.
type RouteRepository interface {
	SaveRoute(ctx context.Context, rec *domain.RouteRecord) error
	// Return ErrRouteNotFound when no route has the id.
	GetRoute(ctx context.Context, id uuid.UUID) (*domain.RouteRecord, error)
	// Return a page of routes, newest first, and the total matching count.
	ListRoutes(ctx context.Context, f RouteFilter) ([]*domain.RouteRecord, int, error)
	// Return ErrRouteNotFound when no route has the id.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RouteStatus) error
	// Return ErrRouteNotFound when no route has the id.
	DeleteRoute(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (domain.RouteSummary, error)
}
