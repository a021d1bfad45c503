package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"route-planner/internal/adapters/cache"
	"route-planner/internal/adapters/memory"
	"route-planner/internal/config"
	"route-planner/internal/platform/db"
	"route-planner/internal/platform/logger"
)

// dbtool prepares the Postgres geocode cache: it creates the schema, warms
// the cache from the seed gazetteer and purges rows older than
// GEOCODE_CACHE_MAX_AGE when that is set.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer conn.Close()

	if err := run(ctx, log, conn, cfg.SeedPath, config.Get("GEOCODE_CACHE_MAX_AGE", "")); err != nil {
		log.Error("dbtool failed", slog.String("error", err.Error()))
		conn.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, conn *sql.DB, seedPath, maxAge string) error {
	log.Info("initializing database schema")
	if err := cache.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization: %w", err)
	}
	log.Info("schema ready")

	if maxAge != "" {
		age, err := time.ParseDuration(maxAge)
		if err != nil {
			return fmt.Errorf("parse GEOCODE_CACHE_MAX_AGE: %w", err)
		}
		n, err := cache.Purge(ctx, conn, age)
		if err != nil {
			return err
		}
		log.Info("purged stale geocode rows", slog.Int64("rows", n))
	}

	gazetteer, err := memory.LoadGazetteer(seedPath)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	log.Info("warming geocode cache", slog.String("seed", seedPath))
	geocodes := cache.NewSQLGeocodeCache(conn)
	places := gazetteer.Places()
	for _, p := range places {
		for _, key := range []string{p.Name, p.Address} {
			if cache.Key(key) == "" {
				continue
			}
			if err := geocodes.Put(ctx, key, p); err != nil {
				return fmt.Errorf("warm geocode cache: %w", err)
			}
		}
	}
	log.Info("seeding complete", slog.Int("places", len(places)))

	return nil
}
