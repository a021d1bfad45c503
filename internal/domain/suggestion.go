package domain

// Suggestion is a candidate address from a lookup. It is never persisted.
type Suggestion struct {
	Name        string
	Address     string
	Coordinates Coordinates
}

func (s Suggestion) Waypoint() Waypoint {
	return NewWaypoint(s.Name, s.Address, s.Coordinates)
}

func (s Suggestion) Stop() Stop {
	return Stop{Name: s.Name, Address: s.Address, Coordinates: s.Coordinates}
}
