package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

// SQL-backed implementation of the RouteRepository port.
//
// Stops and results are stored as JSON documents; the savings figures are
// also kept in their own columns so Summary can aggregate in SQL.
type SQLRouteRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRouteRepository(conn *sql.DB, dialect db.Dialect) *SQLRouteRepository {
	return &SQLRouteRepository{DB: conn, Dialect: dialect}
}

// Insert rec, or replace the stored route with the same ID.
func (s *SQLRouteRepository) SaveRoute(ctx context.Context, rec *domain.RouteRecord) (err error) {
	defer obs.Time(ctx, "routes.SaveRoute")(&err)

	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}
	if rec == nil {
		return errors.New("save route: record is nil")
	}
	if rec.ID == uuid.Nil {
		return errors.New("save route: record has no id")
	}

	stopsJSON, err := json.Marshal(rec.Stops)
	if err != nil {
		return fmt.Errorf("save route id=%s: encode stops: %w", rec.ID, err)
	}

	var resultJSON sql.NullString
	var distanceSaved, fuelSaved, carbonSaved float64
	if rec.Result != nil {
		b, err := json.Marshal(rec.Result)
		if err != nil {
			return fmt.Errorf("save route id=%s: encode result: %w", rec.ID, err)
		}
		resultJSON = sql.NullString{String: string(b), Valid: true}
		distanceSaved = rec.Result.Savings.DistanceKm
		fuelSaved = rec.Result.Savings.FuelLiters
		carbonSaved = rec.Result.Savings.CarbonKg
	}

	status := rec.Status
	if status == "" {
		status = domain.RouteStatusDraft
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := s.Dialect.Rebind(`
	INSERT INTO routes (
		id,
		name,
		status,
		stops_json,
		result_json,
		distance_saved_km,
		fuel_saved_liters,
		carbon_saved_kg,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		status = EXCLUDED.status,
		stops_json = EXCLUDED.stops_json,
		result_json = EXCLUDED.result_json,
		distance_saved_km = EXCLUDED.distance_saved_km,
		fuel_saved_liters = EXCLUDED.fuel_saved_liters,
		carbon_saved_kg = EXCLUDED.carbon_saved_kg;
	`)

	_, err = s.DB.ExecContext(ctx, query,
		rec.ID.String(),
		rec.Name,
		string(status),
		string(stopsJSON),
		resultJSON,
		distanceSaved,
		fuelSaved,
		carbonSaved,
		createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save route id=%s: insert: %w", rec.ID, err)
	}

	return nil
}

const routeColumns = `
	id,
	name,
	status,
	stops_json,
	result_json,
	created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*domain.RouteRecord, error) {
	var (
		id, name, status, stopsJSON string
		resultJSON                  sql.NullString
		createdAt                   int64
	)
	if err := row.Scan(&id, &name, &status, &stopsJSON, &resultJSON, &createdAt); err != nil {
		return nil, err
	}

	rec := &domain.RouteRecord{
		Name:      name,
		Status:    domain.RouteStatus(status),
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	rec.ID = parsed

	if err := json.Unmarshal([]byte(stopsJSON), &rec.Stops); err != nil {
		return nil, fmt.Errorf("decode stops of %s: %w", id, err)
	}

	if resultJSON.Valid {
		var res domain.OptimizationResult
		if err := json.Unmarshal([]byte(resultJSON.String), &res); err != nil {
			return nil, fmt.Errorf("decode result of %s: %w", id, err)
		}
		rec.Result = &res
	}

	return rec, nil
}

// Return the route with the given id, or ports.ErrRouteNotFound.
func (s *SQLRouteRepository) GetRoute(ctx context.Context, id uuid.UUID) (_ *domain.RouteRecord, err error) {
	defer obs.Time(ctx, "routes.GetRoute")(&err)

	if s.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT` + routeColumns + `FROM routes WHERE id = ?;`)

	rec, err := scanRoute(s.DB.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route id=%s: %w", id, err)
	}

	return rec, nil
}

// Return one page of routes, newest first, and the number of routes matching f.
func (s *SQLRouteRepository) ListRoutes(ctx context.Context, f ports.RouteFilter) (_ []*domain.RouteRecord, _ int, err error) {
	defer obs.Time(ctx, "routes.ListRoutes")(&err)

	if s.DB == nil {
		return nil, 0, errors.New("route repository: DB is nil")
	}

	where := ""
	args := make([]any, 0, 3)
	if f.Status != "" {
		where = " WHERE status = ?"
		args = append(args, string(f.Status))
	}

	var total int
	countQuery := s.Dialect.Rebind(`SELECT COUNT(*) FROM routes` + where + `;`)
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("list routes: count: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = ports.DefaultRouteLimit
	}
	offset := max(f.Offset, 0)

	query := s.Dialect.Rebind(`SELECT` + routeColumns + `FROM routes` + where + `
	ORDER BY created_at DESC, id
	LIMIT ? OFFSET ?;`)
	args = append(args, limit, offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.RouteRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRoute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, total, nil
}

// Set the status of a stored route.
func (s *SQLRouteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RouteStatus) (err error) {
	defer obs.Time(ctx, "routes.UpdateStatus")(&err)

	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`UPDATE routes SET status = ? WHERE id = ?;`), string(status), id.String())
	if err != nil {
		return fmt.Errorf("update route status id=%s: %w", id, err)
	}

	return requireAffected(res, id)
}

// Remove a stored route.
func (s *SQLRouteRepository) DeleteRoute(ctx context.Context, id uuid.UUID) (err error) {
	defer obs.Time(ctx, "routes.DeleteRoute")(&err)

	if s.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM routes WHERE id = ?;`), id.String())
	if err != nil {
		return fmt.Errorf("delete route id=%s: %w", id, err)
	}

	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("route id=%s: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrRouteNotFound
	}
	return nil
}

// Aggregate savings over every stored route.
func (s *SQLRouteRepository) Summary(ctx context.Context) (_ domain.RouteSummary, err error) {
	defer obs.Time(ctx, "routes.Summary")(&err)

	if s.DB == nil {
		return domain.RouteSummary{}, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		COUNT(*),
		COUNT(result_json),
		COALESCE(SUM(distance_saved_km), 0),
		COALESCE(SUM(fuel_saved_liters), 0),
		COALESCE(SUM(carbon_saved_kg), 0)
	FROM routes;
	`

	var sum domain.RouteSummary
	err = s.DB.QueryRowContext(ctx, query).Scan(
		&sum.TotalRoutes,
		&sum.OptimizedRoutes,
		&sum.DistanceSavedKm,
		&sum.FuelSavedLiters,
		&sum.CarbonSavedKg,
	)
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("route summary: %w", err)
	}

	return sum, nil
}
