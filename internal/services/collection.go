package services

import (
	"slices"
	"sync"

	"route-planner/internal/domain"
)

// RouteCollection owns the routes known to the session, the selected route
// and the open waypoint-detail target.
//
// Routes are replaced wholesale, never edited in place. Each route carries an
// issued and an applied sequence number: a mutation takes the next issued
// number before its request goes out, and its response is applied only if no
// later-issued response for the same route has been applied already.
//
// A reorder in flight is remembered per route so that responses issued
// before it keep the dragged order until the reorder resolves.
type RouteCollection struct {
	mu         sync.Mutex
	routes     []domain.Route
	selectedID string
	detailID   string
	issued     map[string]uint64
	applied    map[string]uint64
	deleted    map[string]struct{}
	pending    map[string]pendingOrder
}

type pendingOrder struct {
	seq uint64
	ids []string
}

func NewRouteCollection() *RouteCollection {
	return &RouteCollection{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
		deleted: make(map[string]struct{}),
		pending: make(map[string]pendingOrder),
	}
}

// Routes returns a copy of every route, in server order.
func (c *RouteCollection) Routes() []domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Route, 0, len(c.routes))
	for _, r := range c.routes {
		out = append(out, r.Clone())
	}
	return out
}

func (c *RouteCollection) Route(id string) (domain.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return domain.Route{}, false
	}
	return c.routes[i].Clone(), true
}

// Select makes id the selected route. An empty id clears the selection.
// It returns false, leaving the selection unchanged, when id is unknown.
func (c *RouteCollection) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != "" && c.indexLocked(id) < 0 {
		return false
	}
	if id != c.selectedID {
		c.detailID = ""
	}
	c.selectedID = id
	return true
}

func (c *RouteCollection) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

func (c *RouteCollection) Selected() (domain.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(c.selectedID)
	if i < 0 {
		return domain.Route{}, false
	}
	return c.routes[i].Clone(), true
}

// CurrentStopIndex is the lowest pending waypoint index of the selected
// route, or -1. It is derived on every call.
func (c *RouteCollection) CurrentStopIndex() int {
	r, ok := c.Selected()
	if !ok {
		return -1
	}
	return domain.CurrentStopIndex(r.Waypoints)
}

// Progress of the selected route, derived on every call.
func (c *RouteCollection) Progress() domain.Progress {
	r, ok := c.Selected()
	if !ok {
		return domain.Progress{}
	}
	return domain.ProgressOf(r.Waypoints)
}

// OpenWaypointDetail targets a waypoint of the selected route for editing.
func (c *RouteCollection) OpenWaypointDetail(waypointID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(c.selectedID)
	if i < 0 || c.routes[i].WaypointIndex(waypointID) < 0 {
		return false
	}
	c.detailID = waypointID
	return true
}

func (c *RouteCollection) CloseWaypointDetail() {
	c.mu.Lock()
	c.detailID = ""
	c.mu.Unlock()
}

// WaypointDetail returns the waypoint currently open for editing.
func (c *RouteCollection) WaypointDetail() (domain.Waypoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(c.selectedID)
	if i < 0 || c.detailID == "" {
		return domain.Waypoint{}, false
	}
	r := c.routes[i].Clone()
	wi := r.WaypointIndex(c.detailID)
	if wi < 0 {
		return domain.Waypoint{}, false
	}
	return r.Waypoints[wi], true
}

// begin reserves the next sequence number for a mutation on routeID.
func (c *RouteCollection) begin(routeID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued[routeID]++
	return c.issued[routeID]
}

// apply stores r if seq is newer than the last applied response for r.ID.
// It returns false when the response is stale or the route was deleted.
func (c *RouteCollection) apply(r domain.Route, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, gone := c.deleted[r.ID]; gone {
		return false
	}
	if seq <= c.applied[r.ID] {
		return false
	}
	c.applied[r.ID] = seq

	r = r.Clone()
	if p, ok := c.pending[r.ID]; ok {
		if seq >= p.seq {
			delete(c.pending, r.ID)
		} else if order, ok := domain.ArrangeByID(r.Waypoints, p.ids); ok {
			r.Waypoints = order
		}
	}
	c.upsertLocked(r)
	return true
}

// insert adds a newly created route and selects it.
func (c *RouteCollection) insert(r domain.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued[r.ID]++
	c.applied[r.ID] = c.issued[r.ID]
	c.upsertLocked(r.Clone())
	c.selectedID = r.ID
	c.detailID = ""
}

// optimistic replaces the waypoint order of routeID before the server has
// confirmed it, and reserves the sequence number for the confirming request.
// The applied number is left alone so a later refresh can overwrite the order.
func (c *RouteCollection) optimistic(routeID string, waypoints []domain.Waypoint) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(routeID)
	if i < 0 {
		return 0, false
	}
	r := c.routes[i].Clone()
	r.Waypoints = slices.Clone(waypoints)
	c.routes[i] = r

	c.issued[routeID]++
	c.pending[routeID] = pendingOrder{seq: c.issued[routeID], ids: domain.WaypointIDs(waypoints)}
	return c.issued[routeID], true
}

// rollback restores the order a reorder replaced when that reorder failed
// and no later response or refresh has settled the route since.
func (c *RouteCollection) rollback(routeID string, seq uint64, previous []domain.Waypoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[routeID]
	if !ok || p.seq != seq {
		return false
	}
	delete(c.pending, routeID)

	i := c.indexLocked(routeID)
	if i < 0 {
		return false
	}
	order, ok := domain.ArrangeByID(c.routes[i].Waypoints, domain.WaypointIDs(previous))
	if !ok {
		return false
	}
	r := c.routes[i].Clone()
	r.Waypoints = order
	c.routes[i] = r
	return true
}

// remove drops a route after the server confirmed its deletion. Late
// responses for it are ignored from then on.
func (c *RouteCollection) remove(routeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(routeID); i >= 0 {
		c.routes = slices.Delete(c.routes, i, i+1)
	}
	c.deleted[routeID] = struct{}{}
	delete(c.pending, routeID)
	if c.selectedID == routeID {
		c.selectedID = ""
		c.detailID = ""
	}
}

// appliedSnapshot copies the applied sequence numbers, taken before a refresh is sent.
func (c *RouteCollection) appliedSnapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]uint64, len(c.applied))
	for k, v := range c.applied {
		out[k] = v
	}
	return out
}

// replaceAll installs the server's full route list. A route whose applied
// number moved since snapshot was taken keeps its local value, because a
// mutation response landed while the list was in flight.
func (c *RouteCollection) replaceAll(server []domain.Route, snapshot map[string]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.Route, 0, len(server))
	seen := make(map[string]struct{}, len(server))
	for _, r := range server {
		if _, gone := c.deleted[r.ID]; gone {
			continue
		}
		seen[r.ID] = struct{}{}
		if c.applied[r.ID] != snapshot[r.ID] {
			if i := c.indexLocked(r.ID); i >= 0 {
				next = append(next, c.routes[i])
				continue
			}
		}
		delete(c.pending, r.ID)
		next = append(next, r.Clone())
	}
	for _, r := range c.routes {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		if c.applied[r.ID] != snapshot[r.ID] {
			next = append(next, r)
		}
	}
	c.routes = next

	if c.indexLocked(c.selectedID) < 0 {
		c.selectedID = ""
		c.detailID = ""
	} else if c.detailID != "" && c.routes[c.indexLocked(c.selectedID)].WaypointIndex(c.detailID) < 0 {
		c.detailID = ""
	}
}

func (c *RouteCollection) upsertLocked(r domain.Route) {
	if i := c.indexLocked(r.ID); i >= 0 {
		c.routes[i] = r
	} else {
		c.routes = append(c.routes, r)
	}
	if c.detailID != "" && r.ID == c.selectedID && r.WaypointIndex(c.detailID) < 0 {
		c.detailID = ""
	}
}

func (c *RouteCollection) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(c.routes, func(r domain.Route) bool { return r.ID == id })
}
