package remote

import (
	"context"
	"net/http"
	"net/url"

	"route-planner/internal/api/dto"
	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/obs"
)

func routePath(routeID string) string {
	return "/routes/" + url.PathEscape(routeID)
}

func waypointPath(routeID, waypointID string) string {
	return routePath(routeID) + "/waypoints/" + url.PathEscape(waypointID)
}

func (c *Client) ListRoutes(ctx context.Context) (_ []domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.list_routes")(&err)

	var res dto.ListRoutesResponse
	if err := c.get(ctx, "/routes", nil, &res); err != nil {
		return nil, err
	}

	out := make([]domain.Route, 0, len(res.Routes))
	for _, r := range res.Routes {
		out = append(out, r.ToDomain())
	}
	return out, nil
}

func (c *Client) CreateRoute(ctx context.Context, nr domain.NewRoute) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.create_route")(&err)
	return c.mutate(ctx, http.MethodPost, "/routes", dto.CreateRouteFromDomain(nr))
}

func (c *Client) DeleteRoute(ctx context.Context, routeID string) (err error) {
	defer obs.Time(ctx, c.log, "remote.delete_route")(&err)
	return c.send(ctx, http.MethodDelete, routePath(routeID), nil, nil)
}

func (c *Client) UpdateRoute(ctx context.Context, routeID string, u domain.RouteUpdate) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.update_route")(&err)
	return c.mutate(ctx, http.MethodPatch, routePath(routeID), dto.UpdateRouteFromDomain(u))
}

func (c *Client) AddWaypoint(ctx context.Context, routeID string, w domain.Waypoint) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.add_waypoint")(&err)
	return c.mutate(ctx, http.MethodPost, routePath(routeID)+"/waypoints", dto.WaypointFromDomain(w))
}

func (c *Client) RemoveWaypoint(ctx context.Context, routeID, waypointID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.remove_waypoint")(&err)
	return c.mutate(ctx, http.MethodDelete, waypointPath(routeID, waypointID), nil)
}

func (c *Client) PatchWaypoint(ctx context.Context, routeID, waypointID string, p domain.WaypointPatch) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.patch_waypoint")(&err)
	return c.mutate(ctx, http.MethodPatch, waypointPath(routeID, waypointID), dto.PatchWaypointFromDomain(p))
}

func (c *Client) RecomputeRoute(ctx context.Context, routeID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.recompute_route")(&err)
	return c.mutate(ctx, http.MethodPost, routePath(routeID)+"/recalculate", nil)
}

func (c *Client) OptimizeRoute(ctx context.Context, routeID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.optimize_route")(&err)
	return c.mutate(ctx, http.MethodPost, routePath(routeID)+"/optimize", nil)
}

func (c *Client) UndoLastAction(ctx context.Context, routeID string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, c.log, "remote.undo")(&err)
	return c.mutate(ctx, http.MethodPost, routePath(routeID)+"/undo", nil)
}

// mutate sends body once and decodes the full route the service returns.
func (c *Client) mutate(ctx context.Context, method, path string, body any) (*domain.Route, error) {
	var res dto.RouteResponse
	if err := c.send(ctx, method, path, body, &res); err != nil {
		return nil, err
	}
	if res.ID == "" {
		return nil, apperr.New(apperr.KindRemote, "malformed response: missing route id")
	}

	r := res.ToDomain()
	return &r, nil
}
