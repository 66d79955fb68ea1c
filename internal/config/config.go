package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port string

	// DatabaseURL selects Postgres; when empty the service uses SQLite at DBPath.
	DatabaseURL string
	DBPath      string

	RedisURL       string
	ResultCacheTTL time.Duration

	ExternalOptimizerCmd     string
	ExternalOptimizerURL     string
	ExternalOptimizerTimeout time.Duration

	ORSAPIKey string
}

// LoadDotEnv loads a .env file when present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, d)
	}
	return d, nil
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:                 Get("PORT", "8080"),
		DatabaseURL:          Get("DATABASE_URL", ""),
		DBPath:               Get("DB_PATH", "data/app.db"),
		RedisURL:             Get("REDIS_URL", ""),
		ExternalOptimizerCmd: Get("EXTERNAL_OPTIMIZER_CMD", ""),
		ExternalOptimizerURL: Get("EXTERNAL_OPTIMIZER_URL", ""),
		ORSAPIKey:            Get("ORS_API_KEY", ""),
	}

	var err error
	if cfg.ResultCacheTTL, err = getDuration("RESULT_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ExternalOptimizerTimeout, err = getDuration("EXTERNAL_OPTIMIZER_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.ExternalOptimizerCmd != "" && cfg.ExternalOptimizerURL != "" {
		return Config{}, fmt.Errorf("config: set only one of EXTERNAL_OPTIMIZER_CMD and EXTERNAL_OPTIMIZER_URL")
	}

	return cfg, nil
}
