package domain

import "slices"

// Travel mode used by the remote service when computing a route.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
)

func (p Profile) Valid() bool {
	return p == ProfileDriving || p == ProfileWalking
}

// Stop is the fixed start or end of a route. It has no status and is not reorderable.
type Stop struct {
	Name        string
	Address     string
	Coordinates Coordinates
}

// Route is a named ordered plan: start, intermediate waypoints, end, plus
// the path metrics computed by the remote service.
//
// The client never derives Geometry, DistanceMeters or DurationSeconds; they
// are whatever the server last returned.
type Route struct {
	ID              string
	Name            string
	Start           Stop
	End             Stop
	Waypoints       []Waypoint
	Profile         Profile
	Geometry        []Coordinates
	DistanceMeters  *float64
	DurationSeconds *float64
}

// Clone returns a deep copy so callers can never mutate shared state.
func (r Route) Clone() Route {
	out := r
	out.Waypoints = slices.Clone(r.Waypoints)
	out.Geometry = slices.Clone(r.Geometry)
	if r.DistanceMeters != nil {
		d := *r.DistanceMeters
		out.DistanceMeters = &d
	}
	if r.DurationSeconds != nil {
		d := *r.DurationSeconds
		out.DurationSeconds = &d
	}
	for i := range out.Waypoints {
		out.Waypoints[i] = out.Waypoints[i].clone()
	}
	return out
}

// WaypointIndex returns the position of the waypoint with id, or -1.
func (r Route) WaypointIndex(id string) int {
	return slices.IndexFunc(r.Waypoints, func(w Waypoint) bool { return w.ID == id })
}

// NewRoute is the creation payload for an empty route.
type NewRoute struct {
	Name      string
	Start     Stop
	End       Stop
	Waypoints []Waypoint
	Profile   Profile
}

// EmptyRoute builds the payload for a route with placeholder start/end and no waypoints.
func EmptyRoute(name string, profile Profile) NewRoute {
	if !profile.Valid() {
		profile = ProfileDriving
	}
	return NewRoute{
		Name:      name,
		Start:     Stop{Name: "Start", Coordinates: PlaceholderCoordinates},
		End:       Stop{Name: "End", Coordinates: PlaceholderCoordinates},
		Waypoints: []Waypoint{},
		Profile:   profile,
	}
}

// RouteUpdate is a partial route update; nil fields are left untouched.
type RouteUpdate struct {
	Start     *Stop
	End       *Stop
	Waypoints []Waypoint
	Profile   *Profile
}

func (u RouteUpdate) Empty() bool {
	return u.Start == nil && u.End == nil && u.Waypoints == nil && u.Profile == nil
}
