package domain

import "slices"

// MoveWaypoint removes the waypoint at from and reinserts it at to.
// Every other waypoint keeps its relative order. The input is not modified.
// ok is false when either index is out of range or from == to.
func MoveWaypoint(waypoints []Waypoint, from, to int) (_ []Waypoint, ok bool) {
	n := len(waypoints)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil, false
	}

	out := slices.Clone(waypoints)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)
	return out, true
}

// ArrangeByID returns waypoints in the order given by ids. ok is false when
// ids does not name exactly the same waypoints.
func ArrangeByID(waypoints []Waypoint, ids []string) (_ []Waypoint, ok bool) {
	if len(ids) != len(waypoints) {
		return nil, false
	}
	byID := make(map[string]Waypoint, len(waypoints))
	for _, w := range waypoints {
		byID[w.ID] = w
	}
	out := make([]Waypoint, 0, len(ids))
	for _, id := range ids {
		w, found := byID[id]
		if !found {
			return nil, false
		}
		delete(byID, id)
		out = append(out, w)
	}
	return out, true
}

// WaypointIDs lists the ids of waypoints in order.
func WaypointIDs(waypoints []Waypoint) []string {
	out := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		out = append(out, w.ID)
	}
	return out
}
