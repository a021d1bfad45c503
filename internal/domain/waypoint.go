package domain

import "github.com/google/uuid"

// Visit outcome of a waypoint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether s is a visit outcome rather than pending.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// CanTransition reports whether a waypoint may move from s to next.
// Pending moves into any outcome; an outcome only moves back to pending.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() || s == next {
		return false
	}
	if s == StatusPending {
		return next.Terminal()
	}
	return next == StatusPending
}

// Marker color tag from a fixed palette.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
)

const DefaultColor = ColorBlue

var Palette = []Color{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple, ColorOrange}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Waypoint is an intermediate stop with a mutable visit outcome.
// ID is generated by the client at creation and never changes.
type Waypoint struct {
	ID          string
	Name        string
	Address     string
	Coordinates Coordinates
	Status      Status
	Note        *string
	Color       Color
}

func (w Waypoint) clone() Waypoint {
	if w.Note != nil {
		n := *w.Note
		w.Note = &n
	}
	return w
}

func NewWaypointID() string {
	return uuid.NewString()
}

// NewWaypoint builds a pending waypoint with a fresh id and the default color.
func NewWaypoint(name, address string, coords Coordinates) Waypoint {
	return Waypoint{
		ID:          NewWaypointID(),
		Name:        name,
		Address:     address,
		Coordinates: coords,
		Status:      StatusPending,
		Color:       DefaultColor,
	}
}

// WaypointPatch is a partial waypoint update; nil fields are left untouched.
type WaypointPatch struct {
	Name   *string
	Note   *string
	Color  *Color
	Status *Status
}

func (p WaypointPatch) Empty() bool {
	return p.Name == nil && p.Note == nil && p.Color == nil && p.Status == nil
}
