package ports

import (
	"context"

	"route-planner/internal/domain"
)

// Port: the remote route service that owns persistence, routing and optimization.
// Every mutating call returns the authoritative route as stored by the service.
type RouteService interface {
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	CreateRoute(ctx context.Context, r domain.NewRoute) (*domain.Route, error)
	DeleteRoute(ctx context.Context, routeID string) error
	UpdateRoute(ctx context.Context, routeID string, u domain.RouteUpdate) (*domain.Route, error)

	AddWaypoint(ctx context.Context, routeID string, w domain.Waypoint) (*domain.Route, error)
	RemoveWaypoint(ctx context.Context, routeID, waypointID string) (*domain.Route, error)
	PatchWaypoint(ctx context.Context, routeID, waypointID string, p domain.WaypointPatch) (*domain.Route, error)

	// Populate geometry, distance and duration.
	RecomputeRoute(ctx context.Context, routeID string) (*domain.Route, error)
	// Reorder waypoints server-side and populate metrics.
	OptimizeRoute(ctx context.Context, routeID string) (*domain.Route, error)
	// Revert the most recent status change on the route.
	UndoLastAction(ctx context.Context, routeID string) (*domain.Route, error)
}
