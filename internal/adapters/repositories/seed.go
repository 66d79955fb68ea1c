package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"

	"github.com/google/uuid"
)

type StopSeed struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Quantity  int     `json:"quantity"`
}

type RouteSeed struct {
	Name  string     `json:"name"`
	Stops []StopSeed `json:"stops"`
}

// Populate the repository with draft routes from a JSON file.
//
// Route IDs are derived from the route name, so seeding the same file twice
// updates the existing drafts instead of duplicating them.
func SeedFromJSON(ctx context.Context, repo ports.RouteRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed routes: parse json: %w", err)
	}

	now := time.Now()
	records := make([]*domain.RouteRecord, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed routes: route at index %d: name cannot be empty", i+1)
		}

		stops := make([]domain.Stop, 0, len(item.Stops))
		for j, s := range item.Stops {
			stop := domain.Stop{
				ID:       s.ID,
				Name:     s.Name,
				Address:  s.Address,
				Lat:      s.Latitude,
				Lon:      s.Longitude,
				Quantity: s.Quantity,
			}
			if err := stop.Validate(); err != nil {
				return 0, fmt.Errorf("seed routes: route %q stop at index %d: %w", name, j+1, err)
			}
			stops = append(stops, stop)
		}

		records = append(records, &domain.RouteRecord{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte("route:"+name)),
			Name:      name,
			Stops:     stops,
			Status:    domain.RouteStatusDraft,
			CreatedAt: now,
		})
	}

	for _, rec := range records {
		if err := repo.SaveRoute(ctx, rec); err != nil {
			return 0, fmt.Errorf("seed routes: %w", err)
		}
	}

	return len(records), nil
}
