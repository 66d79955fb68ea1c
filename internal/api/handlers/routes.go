package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const maxPageSize = 200

// RouteHandler exposes stored routes.
type RouteHandler struct {
	Repo ports.RouteRepository
}

func positiveQueryInt(r *http.Request, key string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// List serves GET /routes?status=&limit=&page=.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	var f ports.RouteFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st, err := domain.ParseRouteStatus(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		f.Status = st
	}

	limit, ok := positiveQueryInt(r, "limit", ports.DefaultRouteLimit)
	if !ok || limit > maxPageSize {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}
	page, ok := positiveQueryInt(r, "page", 1)
	if !ok || page > math.MaxInt/limit {
		writeError(w, r, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	routes, total, err := h.Repo.ListRoutes(r.Context(), f)
	if err != nil {
		log.Printf("req_id=%s list routes failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{
		Routes: make([]dto.RouteResponse, 0, len(routes)),
		Pagination: dto.PaginationResponse{
			Total: total,
			Page:  page,
			Pages: (total + limit - 1) / limit,
		},
	}
	for _, rec := range routes {
		res.Routes = append(res.Routes, dto.NewRouteResponse(rec))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Item serves GET, PATCH and DELETE on /routes/{id}.
func (h *RouteHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid route id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.updateStatus(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w, r, "GET, PATCH, DELETE")
	}
}

func (h *RouteHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec, err := h.Repo.GetRoute(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, "get route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rec))
}

func (h *RouteHandler) updateStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req dto.UpdateRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	st, err := domain.ParseRouteStatus(strings.TrimSpace(req.Status))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.UpdateStatus(r.Context(), id, st); err != nil {
		h.writeRepoError(w, r, "update route", err)
		return
	}

	h.get(w, r, id)
}

func (h *RouteHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.Repo.DeleteRoute(r.Context(), id); err != nil {
		h.writeRepoError(w, r, "delete route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"message": "route deleted"})
}

func (h *RouteHandler) writeRepoError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, ports.ErrRouteNotFound) {
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	}
	log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// Summary serves GET /routes/summary with savings totals over all stored routes.
func (h *RouteHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	sum, err := h.Repo.Summary(r.Context())
	if err != nil {
		log.Printf("req_id=%s route summary failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SummaryResponse{
		TotalRoutes:     sum.TotalRoutes,
		OptimizedRoutes: sum.OptimizedRoutes,
		TotalSavings: dto.TotalSavingsResponse{
			Distance: dto.Fixed(sum.DistanceSavedKm, 2),
			Fuel:     dto.Fixed(sum.FuelSavedLiters, 2),
			Carbon:   dto.Fixed(sum.CarbonSavedKg, 2),
			Cost:     dto.Fixed(services.FuelCostUSD(sum.FuelSavedLiters), 2),
		},
		Environmental: dto.NewEnvironmentalResponse(
			services.DeriveEnvironmental(sum.CarbonSavedKg, sum.DistanceSavedKm),
		),
	})
}
