// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings for routectl, devserver and dbtool.
type Config struct {
	Env string

	ServiceURL      string
	ServiceAPIKey   string
	HTTPTimeout     time.Duration
	AutocompleteRPS float64

	DatabaseURL        string
	RedisURL           string
	SuggestionCacheTTL time.Duration

	Port     string
	SeedPath string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	return &Config{
		Env:                Get("APP_ENV", "development"),
		ServiceURL:         strings.TrimRight(Get("ROUTE_SERVICE_URL", "http://localhost:8080"), "/"),
		ServiceAPIKey:      os.Getenv("ROUTE_SERVICE_API_KEY"),
		HTTPTimeout:        getDuration("HTTP_TIMEOUT", 10*time.Second),
		AutocompleteRPS:    getFloat("AUTOCOMPLETE_RPS", 5),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		SuggestionCacheTTL: getDuration("SUGGESTION_CACHE_TTL", 10*time.Minute),
		Port:               Get("PORT", "8080"),
		SeedPath:           Get("SEED_PATH", "data/seeds/places.json"),
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid number, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}
