package handlers

import (
	"errors"
	"log"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OptimizeHandler serves POST /optimize.
// Geocoder and Repo are optional.
type OptimizeHandler struct {
	Optimizer ports.Optimizer
	Geocoder  ports.Geocoder
	Repo      ports.RouteRepository
}

func toStopInputs(req []dto.StopRequest) []services.StopInput {
	inputs := make([]services.StopInput, 0, len(req))
	for _, s := range req {
		in := services.StopInput{
			Stop: domain.Stop{
				ID:       s.ID,
				Name:     s.Name,
				Address:  s.Address,
				Quantity: s.Quantity,
			},
		}
		if s.Latitude != nil && s.Longitude != nil {
			in.Stop.Lat = *s.Latitude
			in.Stop.Lon = *s.Longitude
			in.HasCoords = true
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Optimize resolves the submitted stops, optimizes them and optionally stores the result.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	reqID := obs.RequestID(ctx)

	if len(req.Routes) < 2 {
		writeError(w, r, http.StatusBadRequest, domain.ErrInsufficientInput.Error())
		return
	}

	stops, err := services.ResolveStops(ctx, h.Geocoder, toStopInputs(req.Routes))
	if err != nil {
		var mse *domain.MalformedStopError
		if errors.As(err, &mse) {
			writeError(w, r, http.StatusBadRequest, mse.Error())
			return
		}
		log.Printf("req_id=%s resolve stops failed: %v", reqID, err)
		writeError(w, r, http.StatusBadGateway, "address lookup failed")
		return
	}

	result, err := h.Optimizer.Optimize(ctx, stops)
	if err != nil {
		var mse *domain.MalformedStopError
		switch {
		case errors.Is(err, domain.ErrInsufficientInput):
			writeError(w, r, http.StatusBadRequest, domain.ErrInsufficientInput.Error())
		case errors.As(err, &mse):
			writeError(w, r, http.StatusBadRequest, mse.Error())
		default:
			log.Printf("req_id=%s optimize failed: %v", reqID, err)
			writeError(w, r, http.StatusInternalServerError, "optimization failed")
		}
		return
	}

	res := dto.NewOptimizeResponse(result)

	if req.SaveToDatabase && h.Repo != nil {
		now := time.Now().UTC()
		name := strings.TrimSpace(req.RouteName)
		if name == "" {
			name = "Route " + now.Format(time.RFC3339)
		}

		rec := &domain.RouteRecord{
			ID:        uuid.New(),
			Name:      name,
			Stops:     stops,
			Result:    result,
			Status:    domain.RouteStatusOptimized,
			CreatedAt: now,
		}

		// A failed save does not fail the optimization.
		if err := h.Repo.SaveRoute(ctx, rec); err != nil {
			log.Printf("req_id=%s save route failed: %v", reqID, err)
		} else {
			res.SavedRoute = &dto.SavedRouteResponse{ID: rec.ID.String(), Name: rec.Name}
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
