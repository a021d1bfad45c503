package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"route-planner/internal/api/handlers"
	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/validate"
	"route-planner/internal/ports"
)

// NewRouter wires the devserver handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(routes ports.RouteService, lookup ports.AddressLookup, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	val := validate.New()

	routeHandler := &handlers.RouteHandler{Routes: routes, Validator: val, Log: log}
	lookupHandler := &handlers.LookupHandler{Lookup: lookup, Log: log}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handlers.Health(log))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /routes", routeHandler.List)
	mux.HandleFunc("POST /routes", routeHandler.Create)
	mux.HandleFunc("DELETE /routes/{id}", routeHandler.Delete)
	mux.HandleFunc("PATCH /routes/{id}", routeHandler.Update)
	mux.HandleFunc("POST /routes/{id}/waypoints", routeHandler.AddWaypoint)
	mux.HandleFunc("DELETE /routes/{id}/waypoints/{wid}", routeHandler.RemoveWaypoint)
	mux.HandleFunc("PATCH /routes/{id}/waypoints/{wid}", routeHandler.PatchWaypoint)
	mux.HandleFunc("POST /routes/{id}/recalculate", routeHandler.Recompute)
	mux.HandleFunc("POST /routes/{id}/optimize", routeHandler.Optimize)
	mux.HandleFunc("POST /routes/{id}/undo", routeHandler.Undo)

	mux.HandleFunc("GET /geocode", lookupHandler.Geocode)
	mux.HandleFunc("GET /autocomplete", lookupHandler.Autocomplete)

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
