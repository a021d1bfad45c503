package services

import (
	"context"
	"log/slog"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

// ReorderWaypoints moves the waypoint sourceID to the position currently held
// by targetID (a drag and drop). The new order is applied locally before the
// request is sent. On success the server's route replaces it; on failure the
// whole collection is re-fetched, and if that fails too the previous order is
// put back, so the optimistic order cannot linger.
//
// Unknown ids, or sourceID == targetID, are a no-op.
func (c *Coordinator) ReorderWaypoints(ctx context.Context, sourceID, targetID string) (*domain.Route, error) {
	const op = "reorder_waypoints"

	route, ok := c.routes.Selected()
	if !ok {
		return nil, c.reject(ctx, op, "", ErrNoRouteSelected)
	}

	from := route.WaypointIndex(sourceID)
	to := route.WaypointIndex(targetID)
	order, moved := domain.MoveWaypoint(route.Waypoints, from, to)
	if !moved {
		return &route, nil
	}

	seq, ok := c.routes.optimistic(route.ID, order)
	if !ok {
		return nil, c.reject(ctx, op, route.ID, ErrNoRouteSelected)
	}

	updated, err := c.mutate(ctx, op, route.ID, seq, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.UpdateRoute(ctx, routeID, domain.RouteUpdate{Waypoints: order})
	})
	if err != nil {
		c.resync(ctx, route.ID, seq, route.Waypoints)
		return nil, err
	}
	return updated, nil
}

// resync discards an optimistic order by reloading every route from the
// server. When the reload fails the route falls back to previous, the last
// order the server confirmed.
func (c *Coordinator) resync(ctx context.Context, routeID string, seq uint64, previous []domain.Waypoint) {
	msg := "waypoint order restored from server"
	err := c.Refresh(ctx)
	if err != nil {
		c.log.WithContext(ctx).Warn("resync after failed reorder failed",
			slog.String("route_id", routeID),
			slog.String("error", err.Error()),
		)
		msg = "waypoint order rolled back"
	}

	// A refresh keeps the local copy of a route that received a response
	// meanwhile, so the dragged order may still be there.
	if !c.routes.rollback(routeID, seq, previous) && err != nil {
		return
	}
	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifyRouteResynced,
		Op:      "reorder_waypoints",
		RouteID: routeID,
		Message: msg,
	})
}
