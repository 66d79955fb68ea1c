package api

import (
	"context"
	"net/http"
	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/ports"
)

// Deps are the ports the HTTP surface depends on. Geocoder and Ping may be nil.
type Deps struct {
	Optimizer ports.Optimizer
	Geocoder  ports.Geocoder
	Repo      ports.RouteRepository
	Ping      func(ctx context.Context) error
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{
		Optimizer: deps.Optimizer,
		Geocoder:  deps.Geocoder,
		Repo:      deps.Repo,
	}
	routeHandler := &handlers.RouteHandler{Repo: deps.Repo}
	healthHandler := &handlers.HealthHandler{Ping: deps.Ping}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	mux.HandleFunc("/routes", routeHandler.List)
	mux.HandleFunc("/routes/summary", routeHandler.Summary)
	mux.HandleFunc("/routes/{id}", routeHandler.Item)

	return loggingMiddleware(mux)
}
