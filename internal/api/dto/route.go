package dto

type CoordinatesDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type StopDTO struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Coordinates CoordinatesDTO `json:"coordinates"`
}

type WaypointDTO struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Address     string         `json:"address"`
	Coordinates CoordinatesDTO `json:"coordinates"`
	Status      string         `json:"status" validate:"oneof=pending completed failed skipped"`
	Note        *string        `json:"note,omitempty"`
	Color       string         `json:"color" validate:"oneof=blue red green yellow purple orange"`
}

type RouteResponse struct {
	ID              string           `json:"id" validate:"required"`
	Name            string           `json:"name"`
	Start           StopDTO          `json:"start"`
	End             StopDTO          `json:"end"`
	Waypoints       []WaypointDTO    `json:"waypoints" validate:"dive"`
	Profile         string           `json:"profile" validate:"oneof=driving walking"`
	Geometry        []CoordinatesDTO `json:"geometry,omitempty" validate:"omitempty,dive"`
	DistanceMeters  *float64         `json:"distance,omitempty" validate:"omitempty,gte=0"`
	DurationSeconds *float64         `json:"duration,omitempty" validate:"omitempty,gte=0"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes" validate:"dive"`
}

type CreateRouteRequest struct {
	Name      string        `json:"name" validate:"required"`
	Start     StopDTO       `json:"start"`
	End       StopDTO       `json:"end"`
	Waypoints []WaypointDTO `json:"waypoints" validate:"dive"`
	Profile   string        `json:"profile" validate:"omitempty,oneof=driving walking"`
}

type UpdateRouteRequest struct {
	Start     *StopDTO      `json:"start,omitempty"`
	End       *StopDTO      `json:"end,omitempty"`
	Waypoints []WaypointDTO `json:"waypoints,omitempty" validate:"omitempty,dive"`
	Profile   *string       `json:"profile,omitempty" validate:"omitempty,oneof=driving walking"`
}

type PatchWaypointRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Note   *string `json:"note,omitempty"`
	Color  *string `json:"color,omitempty" validate:"omitempty,oneof=blue red green yellow purple orange"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending completed failed skipped"`
}

type SuggestionDTO struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Coordinates CoordinatesDTO `json:"coordinates"`
}

type AutocompleteResponse struct {
	Suggestions []SuggestionDTO `json:"suggestions" validate:"dive"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
