package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"route-planner/internal/adapters/memory"
	"route-planner/internal/api"
	"route-planner/internal/config"
	"route-planner/internal/platform/logger"
)

// main is the devserver composition root. It serves the route service
// contract from memory, with a gazetteer seeded from JSON for lookups.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	gazetteer, err := memory.LoadGazetteer(cfg.SeedPath)
	if err != nil {
		log.Error("load gazetteer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(memory.NewRouteStore(), gazetteer, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.String("seed", cfg.SeedPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("server stopped")
}
