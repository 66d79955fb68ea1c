package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
)

func main() {
	config.LoadDotEnv()

	seedPath := flag.String("seed", config.Get("SEED_PATH", ""), "JSON file of draft routes to load after schema init")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var (
		conn    *sql.DB
		dialect db.Dialect
	)
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = db.Postgres
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = db.SQLite
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, dialect, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	log.Printf("Initializing database schema... dialect=%s", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Printf("Seeding database... path=%s", seedPath)
	n, err := repositories.SeedFromJSON(ctx, repositories.NewSQLRouteRepository(conn, dialect), seedPath)
	if err != nil {
		return err
	}
	log.Printf("Seeding complete. routes=%d", n)

	return nil
}
