package services

import "route-planner/internal/platform/apperr"

// Local precondition failures. They are rejected before any request is sent.
var (
	ErrNoRouteSelected   = apperr.Validation("no route selected")
	ErrTooFewWaypoints   = apperr.Validation("optimize needs at least 2 waypoints")
	ErrWaypointNotFound  = apperr.Validation("waypoint not found on selected route")
	ErrInvalidTransition = apperr.Validation("status change not allowed")
	ErrEmptyName         = apperr.Validation("name is required")
	ErrEmptyAddress      = apperr.Validation("address is required")
	ErrInvalidProfile    = apperr.Validation("unknown travel profile")
	ErrInvalidColor      = apperr.Validation("unknown color")
	ErrNothingToUpdate   = apperr.Validation("nothing to update")
)

var ErrRouteNotFound = apperr.NotFound("route not found")
