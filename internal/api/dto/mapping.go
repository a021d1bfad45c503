package dto

import "route-planner/internal/domain"

func CoordinatesFromDomain(c domain.Coordinates) CoordinatesDTO {
	return CoordinatesDTO{Lat: c.Lat, Lon: c.Lon}
}

func (c CoordinatesDTO) ToDomain() domain.Coordinates {
	return domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func StopFromDomain(s domain.Stop) StopDTO {
	return StopDTO{Name: s.Name, Address: s.Address, Coordinates: CoordinatesFromDomain(s.Coordinates)}
}

func (s StopDTO) ToDomain() domain.Stop {
	return domain.Stop{Name: s.Name, Address: s.Address, Coordinates: s.Coordinates.ToDomain()}
}

func WaypointFromDomain(w domain.Waypoint) WaypointDTO {
	return WaypointDTO{
		ID:          w.ID,
		Name:        w.Name,
		Address:     w.Address,
		Coordinates: CoordinatesFromDomain(w.Coordinates),
		Status:      string(w.Status),
		Note:        w.Note,
		Color:       string(w.Color),
	}
}

func (w WaypointDTO) ToDomain() domain.Waypoint {
	return domain.Waypoint{
		ID:          w.ID,
		Name:        w.Name,
		Address:     w.Address,
		Coordinates: w.Coordinates.ToDomain(),
		Status:      domain.Status(w.Status),
		Note:        w.Note,
		Color:       domain.Color(w.Color),
	}
}

func WaypointsFromDomain(ws []domain.Waypoint) []WaypointDTO {
	if ws == nil {
		return nil
	}
	out := make([]WaypointDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, WaypointFromDomain(w))
	}
	return out
}

func waypointsToDomain(ws []WaypointDTO) []domain.Waypoint {
	out := make([]domain.Waypoint, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ToDomain())
	}
	return out
}

func RouteFromDomain(r domain.Route) RouteResponse {
	geometry := make([]CoordinatesDTO, 0, len(r.Geometry))
	for _, c := range r.Geometry {
		geometry = append(geometry, CoordinatesFromDomain(c))
	}

	waypoints := WaypointsFromDomain(r.Waypoints)
	if waypoints == nil {
		waypoints = []WaypointDTO{}
	}

	return RouteResponse{
		ID:              r.ID,
		Name:            r.Name,
		Start:           StopFromDomain(r.Start),
		End:             StopFromDomain(r.End),
		Waypoints:       waypoints,
		Profile:         string(r.Profile),
		Geometry:        geometry,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	}
}

func (r RouteResponse) ToDomain() domain.Route {
	var geometry []domain.Coordinates
	if len(r.Geometry) > 0 {
		geometry = make([]domain.Coordinates, 0, len(r.Geometry))
		for _, c := range r.Geometry {
			geometry = append(geometry, c.ToDomain())
		}
	}

	return domain.Route{
		ID:              r.ID,
		Name:            r.Name,
		Start:           r.Start.ToDomain(),
		End:             r.End.ToDomain(),
		Waypoints:       waypointsToDomain(r.Waypoints),
		Profile:         domain.Profile(r.Profile),
		Geometry:        geometry,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	}
}

func CreateRouteFromDomain(nr domain.NewRoute) CreateRouteRequest {
	waypoints := WaypointsFromDomain(nr.Waypoints)
	if waypoints == nil {
		waypoints = []WaypointDTO{}
	}
	return CreateRouteRequest{
		Name:      nr.Name,
		Start:     StopFromDomain(nr.Start),
		End:       StopFromDomain(nr.End),
		Waypoints: waypoints,
		Profile:   string(nr.Profile),
	}
}

func (c CreateRouteRequest) ToDomain() domain.NewRoute {
	return domain.NewRoute{
		Name:      c.Name,
		Start:     c.Start.ToDomain(),
		End:       c.End.ToDomain(),
		Waypoints: waypointsToDomain(c.Waypoints),
		Profile:   domain.Profile(c.Profile),
	}
}

func UpdateRouteFromDomain(u domain.RouteUpdate) UpdateRouteRequest {
	var out UpdateRouteRequest
	if u.Start != nil {
		s := StopFromDomain(*u.Start)
		out.Start = &s
	}
	if u.End != nil {
		e := StopFromDomain(*u.End)
		out.End = &e
	}
	if u.Profile != nil {
		p := string(*u.Profile)
		out.Profile = &p
	}
	out.Waypoints = WaypointsFromDomain(u.Waypoints)
	return out
}

func (u UpdateRouteRequest) ToDomain() domain.RouteUpdate {
	var out domain.RouteUpdate
	if u.Start != nil {
		s := u.Start.ToDomain()
		out.Start = &s
	}
	if u.End != nil {
		e := u.End.ToDomain()
		out.End = &e
	}
	if u.Profile != nil {
		p := domain.Profile(*u.Profile)
		out.Profile = &p
	}
	if u.Waypoints != nil {
		out.Waypoints = waypointsToDomain(u.Waypoints)
	}
	return out
}

func PatchWaypointFromDomain(p domain.WaypointPatch) PatchWaypointRequest {
	var out PatchWaypointRequest
	out.Name = p.Name
	out.Note = p.Note
	if p.Color != nil {
		c := string(*p.Color)
		out.Color = &c
	}
	if p.Status != nil {
		s := string(*p.Status)
		out.Status = &s
	}
	return out
}

func (p PatchWaypointRequest) ToDomain() domain.WaypointPatch {
	var out domain.WaypointPatch
	out.Name = p.Name
	out.Note = p.Note
	if p.Color != nil {
		c := domain.Color(*p.Color)
		out.Color = &c
	}
	if p.Status != nil {
		s := domain.Status(*p.Status)
		out.Status = &s
	}
	return out
}

func SuggestionFromDomain(s domain.Suggestion) SuggestionDTO {
	return SuggestionDTO{Name: s.Name, Address: s.Address, Coordinates: CoordinatesFromDomain(s.Coordinates)}
}

func (s SuggestionDTO) ToDomain() domain.Suggestion {
	return domain.Suggestion{Name: s.Name, Address: s.Address, Coordinates: s.Coordinates.ToDomain()}
}
