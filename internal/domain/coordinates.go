package domain

import "math"

// Mean Earth radius in meters used for great-circle distances.
const earthRadiusMeters = 6371000.0

// Immutable geographic point (latitude, longitude).
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Return the point as [lat, lng] for map rendering.
func (p GeoPoint) LatLng() []float64 { return []float64{p.Lat, p.Lng} }

// Great-circle distance to another point in meters (haversine).
func (p GeoPoint) DistanceTo(q GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
