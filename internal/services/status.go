package services

import (
	"context"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

var statusMessages = map[domain.Status]string{
	domain.StatusCompleted: "stop completed",
	domain.StatusFailed:    "stop marked as failed",
	domain.StatusSkipped:   "stop skipped",
	domain.StatusPending:   "stop reset to pending",
}

// SetWaypointStatus records a visit outcome for a pending waypoint.
func (c *Coordinator) SetWaypointStatus(ctx context.Context, waypointID string, status domain.Status) (*domain.Route, error) {
	const op = "set_waypoint_status"

	if !status.Terminal() {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrInvalidTransition)
	}
	return c.transition(ctx, op, waypointID, status)
}

// ResetWaypoint puts a waypoint with an outcome back to pending.
func (c *Coordinator) ResetWaypoint(ctx context.Context, waypointID string) (*domain.Route, error) {
	return c.transition(ctx, "reset_waypoint", waypointID, domain.StatusPending)
}

func (c *Coordinator) transition(ctx context.Context, op, waypointID string, next domain.Status) (*domain.Route, error) {
	w, err := c.selectedWaypoint(ctx, op, waypointID)
	if err != nil {
		return nil, err
	}
	if !w.Status.CanTransition(next) {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrInvalidTransition)
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.PatchWaypoint(ctx, routeID, waypointID, domain.WaypointPatch{Status: &next})
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifyStatusChanged,
		Op:      op,
		RouteID: route.ID,
		Status:  string(next),
		Message: statusMessages[next],
	})
	return route, nil
}

// UndoLastAction asks the server to revert the most recent status change on
// the selected route. The client keeps no history of its own.
func (c *Coordinator) UndoLastAction(ctx context.Context) (*domain.Route, error) {
	const op = "undo_last_action"

	route, err := c.mutateSelected(ctx, op, c.svc.UndoLastAction)
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifyUndone,
		Op:      op,
		RouteID: route.ID,
		Message: "last action undone",
	})
	return route, nil
}
