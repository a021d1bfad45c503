package domain

// CurrentStopIndex returns the lowest index whose status is pending, or -1
// when there are no waypoints or every waypoint has an outcome.
func CurrentStopIndex(waypoints []Waypoint) int {
	for i, w := range waypoints {
		if w.Status == StatusPending {
			return i
		}
	}
	return -1
}

// Progress counts waypoints that have an outcome, out of the total.
type Progress struct {
	Done  int
	Total int
}

func ProgressOf(waypoints []Waypoint) Progress {
	p := Progress{Total: len(waypoints)}
	for _, w := range waypoints {
		if w.Status != StatusPending {
			p.Done++
		}
	}
	return p
}
