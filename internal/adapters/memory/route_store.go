package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
)

// Average speeds used to turn distance into duration, meters per second.
var profileSpeed = map[domain.Profile]float64{
	domain.ProfileDriving: 13.9,
	domain.ProfileWalking: 1.4,
}

type statusChange struct {
	waypointID string
	prev       domain.Status
}

type storedRoute struct {
	route   domain.Route
	history []statusChange
}

// RouteStore is an in-memory implementation of the remote route service.
// It backs the devserver and tests. The store is safe for concurrent use.
type RouteStore struct {
	mu     sync.Mutex
	routes []*storedRoute
}

func NewRouteStore() *RouteStore {
	return &RouteStore{}
}

func (s *RouteStore) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Route, 0, len(s.routes))
	for _, sr := range s.routes {
		out = append(out, sr.route.Clone())
	}
	return out, nil
}

func (s *RouteStore) CreateRoute(ctx context.Context, nr domain.NewRoute) (*domain.Route, error) {
	if strings.TrimSpace(nr.Name) == "" {
		return nil, apperr.Validation("name is required").WithOp("create route")
	}
	if nr.Profile == "" {
		nr.Profile = domain.ProfileDriving
	}
	if !nr.Profile.Valid() {
		return nil, apperr.Validation("unknown profile").WithOp("create route")
	}

	waypoints := make([]domain.Waypoint, 0, len(nr.Waypoints))
	for _, w := range nr.Waypoints {
		waypoints = append(waypoints, normalizeWaypoint(w))
	}

	r := domain.Route{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(nr.Name),
		Start:     nr.Start,
		End:       nr.End,
		Waypoints: waypoints,
		Profile:   nr.Profile,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, &storedRoute{route: r})
	out := r.Clone()
	return &out, nil
}

func (s *RouteStore) DeleteRoute(ctx context.Context, routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(routeID)
	if i < 0 {
		return apperr.NotFound("route not found").WithOp("delete route")
	}
	s.routes = slices.Delete(s.routes, i, i+1)
	return nil
}

// UpdateRoute applies a partial update. A waypoint list is taken as the new
// order; waypoints the store already knows keep their stored fields, unknown
// ones are added and missing ones are dropped.
func (s *RouteStore) UpdateRoute(ctx context.Context, routeID string, u domain.RouteUpdate) (*domain.Route, error) {
	if u.Profile != nil && !u.Profile.Valid() {
		return nil, apperr.Validation("unknown profile").WithOp("update route")
	}

	return s.withRoute(routeID, "update route", func(sr *storedRoute) error {
		if u.Start != nil {
			sr.route.Start = *u.Start
		}
		if u.End != nil {
			sr.route.End = *u.End
		}
		if u.Profile != nil {
			sr.route.Profile = *u.Profile
		}
		if u.Waypoints != nil {
			next := make([]domain.Waypoint, 0, len(u.Waypoints))
			seen := make(map[string]struct{}, len(u.Waypoints))
			for _, w := range u.Waypoints {
				if _, dup := seen[w.ID]; dup || w.ID == "" {
					return apperr.Validation("waypoint ids must be unique and non-empty")
				}
				seen[w.ID] = struct{}{}
				if i := sr.route.WaypointIndex(w.ID); i >= 0 {
					next = append(next, sr.route.Waypoints[i])
				} else {
					next = append(next, normalizeWaypoint(w))
				}
			}
			sr.route.Waypoints = next
		}
		return nil
	})
}

func (s *RouteStore) AddWaypoint(ctx context.Context, routeID string, w domain.Waypoint) (*domain.Route, error) {
	if strings.TrimSpace(w.Name) == "" {
		return nil, apperr.Validation("waypoint name is required").WithOp("add waypoint")
	}

	return s.withRoute(routeID, "add waypoint", func(sr *storedRoute) error {
		w = normalizeWaypoint(w)
		if sr.route.WaypointIndex(w.ID) >= 0 {
			return apperr.Conflict("waypoint id already exists")
		}
		sr.route.Waypoints = append(sr.route.Waypoints, w)
		return nil
	})
}

func (s *RouteStore) RemoveWaypoint(ctx context.Context, routeID, waypointID string) (*domain.Route, error) {
	return s.withRoute(routeID, "remove waypoint", func(sr *storedRoute) error {
		i := sr.route.WaypointIndex(waypointID)
		if i < 0 {
			return apperr.NotFound("waypoint not found")
		}
		sr.route.Waypoints = slices.Delete(sr.route.Waypoints, i, i+1)
		return nil
	})
}

// PatchWaypoint updates waypoint fields. Status changes are recorded so
// UndoLastAction can revert them.
func (s *RouteStore) PatchWaypoint(ctx context.Context, routeID, waypointID string, p domain.WaypointPatch) (*domain.Route, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, apperr.Validation("unknown status").WithOp("patch waypoint")
	}
	if p.Color != nil && !p.Color.Valid() {
		return nil, apperr.Validation("unknown color").WithOp("patch waypoint")
	}

	return s.withRoute(routeID, "patch waypoint", func(sr *storedRoute) error {
		i := sr.route.WaypointIndex(waypointID)
		if i < 0 {
			return apperr.NotFound("waypoint not found")
		}
		w := &sr.route.Waypoints[i]

		if p.Name != nil {
			w.Name = *p.Name
		}
		if p.Note != nil {
			note := *p.Note
			w.Note = &note
		}
		if p.Color != nil {
			w.Color = *p.Color
		}
		if p.Status != nil && *p.Status != w.Status {
			sr.history = append(sr.history, statusChange{waypointID: w.ID, prev: w.Status})
			w.Status = *p.Status
		}
		return nil
	})
}

func (s *RouteStore) RecomputeRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.withRoute(routeID, "recompute route", func(sr *storedRoute) error {
		recompute(&sr.route)
		return nil
	})
}

func (s *RouteStore) OptimizeRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.withRoute(routeID, "optimize route", func(sr *storedRoute) error {
		if len(sr.route.Waypoints) < 2 {
			return apperr.Validation("optimize needs at least 2 waypoints")
		}
		sr.route.Waypoints = NearestNeighborOrder(sr.route.Start.Coordinates, sr.route.Waypoints)
		recompute(&sr.route)
		return nil
	})
}

// UndoLastAction reverts the most recent status change whose waypoint still exists.
func (s *RouteStore) UndoLastAction(ctx context.Context, routeID string) (*domain.Route, error) {
	return s.withRoute(routeID, "undo", func(sr *storedRoute) error {
		for len(sr.history) > 0 {
			last := sr.history[len(sr.history)-1]
			sr.history = sr.history[:len(sr.history)-1]

			if i := sr.route.WaypointIndex(last.waypointID); i >= 0 {
				sr.route.Waypoints[i].Status = last.prev
				return nil
			}
		}
		return apperr.Conflict("nothing to undo")
	})
}

// withRoute runs fn on the stored route and returns a copy of the result.
// On error the stored route is restored.
func (s *RouteStore) withRoute(routeID, op string, fn func(sr *storedRoute) error) (*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(routeID)
	if i < 0 {
		return nil, apperr.NotFound("route not found").WithOp(op)
	}

	sr := s.routes[i]
	before := sr.route.Clone()
	history := slices.Clone(sr.history)
	if err := fn(sr); err != nil {
		sr.route = before
		sr.history = history
		if ae, ok := err.(*apperr.Error); ok {
			return nil, ae.WithOp(op)
		}
		return nil, err
	}

	out := sr.route.Clone()
	return &out, nil
}

func (s *RouteStore) indexLocked(routeID string) int {
	return slices.IndexFunc(s.routes, func(sr *storedRoute) bool { return sr.route.ID == routeID })
}

func normalizeWaypoint(w domain.Waypoint) domain.Waypoint {
	if w.ID == "" {
		w.ID = domain.NewWaypointID()
	}
	if !w.Status.Valid() {
		w.Status = domain.StatusPending
	}
	if !w.Color.Valid() {
		w.Color = domain.DefaultColor
	}
	return w
}

// recompute derives a straight-line path through start, waypoints and end.
func recompute(r *domain.Route) {
	points := make([]domain.Coordinates, 0, len(r.Waypoints)+2)
	points = append(points, r.Start.Coordinates)
	for _, w := range r.Waypoints {
		points = append(points, w.Coordinates)
	}
	points = append(points, r.End.Coordinates)

	meters := 0.0
	for i := 1; i < len(points); i++ {
		meters += points[i-1].DistanceTo(points[i])
	}

	speed, ok := profileSpeed[r.Profile]
	if !ok {
		speed = profileSpeed[domain.ProfileDriving]
	}
	seconds := meters / speed

	r.Geometry = points
	r.DistanceMeters = &meters
	r.DurationSeconds = &seconds
}
