package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/geocode"
	"route-optimizer-service/internal/adapters/optimizer"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS, external optimizer) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	conn, dialect, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLRouteRepository(conn, dialect)

	deps := api.Deps{Repo: repo, Ping: conn.PingContext}

	// Address lookup is optional; without a key every stop must carry coordinates.
	if cfg.ORSAPIKey != "" {
		geocoder, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, cache.NewSQLGeocodeCache(conn, dialect))
		if err != nil {
			log.Fatal(err)
		}
		deps.Geocoder = geocoder
	}

	external, err := externalOptimizer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var opt ports.Optimizer = services.NewOptimizer(external, cfg.ExternalOptimizerTimeout)
	if cfg.RedisURL != "" {
		resultCache, err := cache.NewRedisResultCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer resultCache.Close()
		opt = services.NewCachedOptimizer(opt, resultCache, cfg.ResultCacheTTL)
	}
	deps.Optimizer = opt

	router := api.NewRouter(deps)

	log.Printf(
		"Server listening addr=:%s db=%s external=%t geocoding=%t result_cache=%t",
		cfg.Port, dialect, external != nil, deps.Geocoder != nil, cfg.RedisURL != "",
	)
	// WriteTimeout leaves room for the external optimizer timeout plus geocoding.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.ExternalOptimizerTimeout + 60*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(cfg config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.Postgres, err
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}

// externalOptimizer returns nil when no external strategy is configured.
func externalOptimizer(cfg config.Config) (ports.ExternalOptimizer, error) {
	switch {
	case cfg.ExternalOptimizerURL != "":
		h, err := optimizer.NewHTTPOptimizer(cfg.ExternalOptimizerURL)
		if err != nil {
			return nil, err
		}
		return h, nil
	case cfg.ExternalOptimizerCmd != "":
		p, err := optimizer.NewProcessOptimizer(cfg.ExternalOptimizerCmd)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, nil
}
