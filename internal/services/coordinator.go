package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/obs"
	"route-planner/internal/ports"
)

// Coordinator runs every state-changing remote operation against the route
// collection with the same shape: check local preconditions, send exactly one
// request, and on success replace the route with the server's copy. A failed
// request leaves local state as it was and produces a failure notification.
// Nothing is retried or queued.
type Coordinator struct {
	svc      ports.RouteService
	routes   *RouteCollection
	notifier ports.Notifier
	log      *logger.Logger

	refreshes singleflight.Group
}

func NewCoordinator(svc ports.RouteService, routes *RouteCollection, notifier ports.Notifier, log *logger.Logger) *Coordinator {
	return &Coordinator{
		svc:      svc,
		routes:   routes,
		notifier: notifier,
		log:      log,
	}
}

// Refresh replaces the collection with the server's route list. Concurrent
// callers share one request.
func (c *Coordinator) Refresh(ctx context.Context) (err error) {
	const op = "list_routes"
	defer obs.Time(ctx, c.log, op)(&err)

	_, err, _ = c.refreshes.Do("routes", func() (any, error) {
		snapshot := c.routes.appliedSnapshot()
		routes, err := c.svc.ListRoutes(ctx)
		if err != nil {
			return nil, err
		}
		c.routes.replaceAll(routes, snapshot)
		return nil, nil
	})
	if err != nil {
		return c.fail(ctx, op, "", err)
	}
	obs.OperationsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

func (c *Coordinator) CreateRoute(ctx context.Context, name string, profile domain.Profile) (_ *domain.Route, err error) {
	const op = "create_route"
	defer obs.Time(ctx, c.log, op)(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, c.reject(ctx, op, "", ErrEmptyName)
	}
	if profile == "" {
		profile = domain.ProfileDriving
	}
	if !profile.Valid() {
		return nil, c.reject(ctx, op, "", ErrInvalidProfile)
	}

	created, err := c.svc.CreateRoute(ctx, domain.EmptyRoute(name, profile))
	if err != nil {
		return nil, c.fail(ctx, op, "", err)
	}
	if created == nil || created.ID == "" {
		return nil, c.fail(ctx, op, "", apperr.New(apperr.KindRemote, "created route has no id"))
	}

	c.routes.insert(*created)
	c.succeed(ctx, op, created.ID, fmt.Sprintf("route %q created", created.Name))
	out := created.Clone()
	return &out, nil
}

func (c *Coordinator) DeleteRoute(ctx context.Context, routeID string) (err error) {
	const op = "delete_route"
	defer obs.Time(ctx, c.log, op)(&err)

	if routeID == "" {
		return c.reject(ctx, op, "", ErrNoRouteSelected)
	}

	if err := c.svc.DeleteRoute(ctx, routeID); err != nil {
		return c.fail(ctx, op, routeID, err)
	}

	c.routes.remove(routeID)
	c.succeed(ctx, op, routeID, "route deleted")
	return nil
}

func (c *Coordinator) SetStart(ctx context.Context, stop domain.Stop) (*domain.Route, error) {
	return c.setStop(ctx, "set_start", stop, func(s *domain.Stop) domain.RouteUpdate {
		return domain.RouteUpdate{Start: s}
	})
}

func (c *Coordinator) SetEnd(ctx context.Context, stop domain.Stop) (*domain.Route, error) {
	return c.setStop(ctx, "set_end", stop, func(s *domain.Stop) domain.RouteUpdate {
		return domain.RouteUpdate{End: s}
	})
}

func (c *Coordinator) setStop(ctx context.Context, op string, stop domain.Stop, update func(*domain.Stop) domain.RouteUpdate) (*domain.Route, error) {
	if strings.TrimSpace(stop.Name) == "" && strings.TrimSpace(stop.Address) == "" {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrEmptyAddress)
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.UpdateRoute(ctx, routeID, update(&stop))
	})
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "route endpoint updated")
	return route, nil
}

func (c *Coordinator) ChangeProfile(ctx context.Context, profile domain.Profile) (*domain.Route, error) {
	const op = "change_profile"

	if !profile.Valid() {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrInvalidProfile)
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.UpdateRoute(ctx, routeID, domain.RouteUpdate{Profile: &profile})
	})
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "travel profile changed to "+string(profile))
	return route, nil
}

// AddWaypoint appends w to the selected route. Missing id, status and color
// are filled with a fresh id, pending and the default color.
func (c *Coordinator) AddWaypoint(ctx context.Context, w domain.Waypoint) (*domain.Route, error) {
	const op = "add_waypoint"

	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrEmptyName)
	}
	if w.ID == "" {
		w.ID = domain.NewWaypointID()
	}
	if w.Status == "" {
		w.Status = domain.StatusPending
	}
	if w.Color == "" {
		w.Color = domain.DefaultColor
	}
	if !w.Color.Valid() {
		return nil, c.reject(ctx, op, c.routes.SelectedID(), ErrInvalidColor)
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.AddWaypoint(ctx, routeID, w)
	})
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, fmt.Sprintf("%q added", w.Name))
	return route, nil
}

func (c *Coordinator) RemoveWaypoint(ctx context.Context, waypointID string) (*domain.Route, error) {
	const op = "remove_waypoint"

	if _, err := c.selectedWaypoint(ctx, op, waypointID); err != nil {
		return nil, err
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.RemoveWaypoint(ctx, routeID, waypointID)
	})
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "waypoint removed")
	return route, nil
}

// UpdateWaypointDetails patches name, note or color. Status changes go through
// SetWaypointStatus and ResetWaypoint.
func (c *Coordinator) UpdateWaypointDetails(ctx context.Context, waypointID string, patch domain.WaypointPatch) (*domain.Route, error) {
	const op = "update_waypoint"
	routeID := c.routes.SelectedID()

	patch.Status = nil
	if patch.Empty() {
		return nil, c.reject(ctx, op, routeID, ErrNothingToUpdate)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, c.reject(ctx, op, routeID, ErrEmptyName)
		}
		patch.Name = &name
	}
	if patch.Color != nil && !patch.Color.Valid() {
		return nil, c.reject(ctx, op, routeID, ErrInvalidColor)
	}
	if _, err := c.selectedWaypoint(ctx, op, waypointID); err != nil {
		return nil, err
	}

	route, err := c.mutateSelected(ctx, op, func(ctx context.Context, routeID string) (*domain.Route, error) {
		return c.svc.PatchWaypoint(ctx, routeID, waypointID, patch)
	})
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "waypoint updated")
	return route, nil
}

// Recompute asks the service for fresh geometry, distance and duration.
func (c *Coordinator) Recompute(ctx context.Context) (*domain.Route, error) {
	const op = "recompute_route"

	route, err := c.mutateSelected(ctx, op, c.svc.RecomputeRoute)
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "route recalculated")
	return route, nil
}

// Optimize asks the service to reorder the waypoints. At least two waypoints
// are required; fewer is rejected without a request.
func (c *Coordinator) Optimize(ctx context.Context) (*domain.Route, error) {
	const op = "optimize_route"

	selected, ok := c.routes.Selected()
	if !ok {
		return nil, c.reject(ctx, op, "", ErrNoRouteSelected)
	}
	if len(selected.Waypoints) < 2 {
		return nil, c.reject(ctx, op, selected.ID, ErrTooFewWaypoints)
	}

	route, err := c.mutateSelected(ctx, op, c.svc.OptimizeRoute)
	if err != nil {
		return nil, err
	}
	c.succeed(ctx, op, route.ID, "route optimized")
	return route, nil
}

// mutateSelected runs call against the selected route.
func (c *Coordinator) mutateSelected(
	ctx context.Context,
	op string,
	call func(ctx context.Context, routeID string) (*domain.Route, error),
) (*domain.Route, error) {
	routeID := c.routes.SelectedID()
	if routeID == "" {
		return nil, c.reject(ctx, op, "", ErrNoRouteSelected)
	}
	return c.mutate(ctx, op, routeID, c.routes.begin(routeID), call)
}

// mutate sends one request for routeID and applies the returned route if it
// is still the newest response for that route. A stale response is dropped
// and the newer local copy is returned instead.
func (c *Coordinator) mutate(
	ctx context.Context,
	op string,
	routeID string,
	seq uint64,
	call func(ctx context.Context, routeID string) (*domain.Route, error),
) (_ *domain.Route, err error) {
	ctx = context.WithValue(ctx, logger.RouteIDKey, routeID)
	defer obs.Time(ctx, c.log, op)(&err)

	updated, err := call(ctx, routeID)
	if err != nil {
		return nil, c.fail(ctx, op, routeID, err)
	}
	if updated == nil {
		return nil, c.fail(ctx, op, routeID, apperr.New(apperr.KindRemote, "empty response"))
	}
	if updated.ID != routeID {
		return nil, c.fail(ctx, op, routeID, apperr.New(apperr.KindRemote, fmt.Sprintf("response is for route %q", updated.ID)))
	}

	if !c.routes.apply(*updated, seq) {
		obs.StaleResponsesTotal.WithLabelValues(op).Inc()
		c.log.WithContext(ctx).Info("stale response discarded", slog.String("op", op), slog.Uint64("seq", seq))
		if current, ok := c.routes.Route(routeID); ok {
			return &current, nil
		}
		out := updated.Clone()
		return &out, nil
	}

	obs.OperationsTotal.WithLabelValues(op, "ok").Inc()
	out := updated.Clone()
	return &out, nil
}

func (c *Coordinator) selectedWaypoint(ctx context.Context, op, waypointID string) (domain.Waypoint, error) {
	route, ok := c.routes.Selected()
	if !ok {
		return domain.Waypoint{}, c.reject(ctx, op, "", ErrNoRouteSelected)
	}
	i := route.WaypointIndex(waypointID)
	if i < 0 {
		return domain.Waypoint{}, c.reject(ctx, op, route.ID, ErrWaypointNotFound)
	}
	return route.Waypoints[i], nil
}

// reject surfaces a precondition failure. No request was sent.
func (c *Coordinator) reject(ctx context.Context, op, routeID string, e *apperr.Error) error {
	obs.OperationsTotal.WithLabelValues(op, "rejected").Inc()
	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifyValidation,
		Op:      op,
		RouteID: routeID,
		Message: e.Message,
	})
	return e.WithOp(op)
}

// fail surfaces a transport or server failure. Local state is untouched.
func (c *Coordinator) fail(ctx context.Context, op, routeID string, err error) error {
	obs.OperationsTotal.WithLabelValues(op, "error").Inc()
	c.log.WithContext(ctx).Warn("operation failed",
		slog.String("op", op),
		slog.String("kind", apperr.GetKind(err).String()),
		slog.String("error", err.Error()),
	)

	msg := "could not " + strings.ReplaceAll(op, "_", " ")
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindUnavailable && ae.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, ae.Message)
	}
	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifyFailure,
		Op:      op,
		RouteID: routeID,
		Message: msg,
	})
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Coordinator) succeed(ctx context.Context, op, routeID, msg string) {
	c.notifier.Notify(ctx, ports.Notification{
		Kind:    ports.NotifySuccess,
		Op:      op,
		RouteID: routeID,
		Message: msg,
	})
}
