package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Placeholder used for the start and end of a freshly created route.
var PlaceholderCoordinates = Coordinates{Lat: 0, Lon: 0}

// Return coordinates as [lat, lon].
func (c Coordinates) Pair() [2]float64 { return [2]float64{c.Lat, c.Lon} }

const earthRadiusMeters = 6371000.0

// DistanceTo returns the great-circle distance in meters.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(o.Lat - c.Lat)
	dLon := toRad(o.Lon - c.Lon)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(c.Lat))*math.Cos(toRad(o.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}
