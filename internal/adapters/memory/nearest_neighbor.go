package memory

import (
	"math"

	"route-planner/internal/domain"
)

// Order waypoints using a greedy nearest-neighbor walk from start.
//
// Each step picks the closest unvisited waypoint by great-circle distance.
// It does not attempt global optimization; ties are broken by waypoint id so
// the result is deterministic.
func NearestNeighborOrder(start domain.Coordinates, waypoints []domain.Waypoint) []domain.Waypoint {
	remaining := make(map[int]struct{}, len(waypoints))
	for i := range waypoints {
		remaining[i] = struct{}{}
	}

	current := start
	out := make([]domain.Waypoint, 0, len(waypoints))

	for len(remaining) > 0 {
		best := -1
		minDistance := math.MaxFloat64

		for i := range remaining {
			d := current.DistanceTo(waypoints[i].Coordinates)
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if best == -1 || d < minDistance || (d == minDistance && waypoints[i].ID < waypoints[best].ID) {
				minDistance = d
				best = i
			}
		}

		out = append(out, waypoints[best])
		delete(remaining, best)
		current = waypoints[best].Coordinates
	}

	return out
}
