package domain

// A single maneuver of a route leg, ending at EndPoint.
type RouteStep struct {
	EndPoint       GeoPoint
	DistanceMeters float64
}

// Represents one origin-to-destination path returned by the directions provider.
// Multi-leg (waypoint) trips are not modeled: each candidate route has exactly one leg.
type RouteLeg struct {
	Summary             string
	StartPoint          GeoPoint
	EndPoint            GeoPoint
	TotalDistanceMeters float64
	Steps               []RouteStep
}

// Return the path geometry as the start point followed by every step end point.
func (l RouteLeg) Path() []GeoPoint {
	path := make([]GeoPoint, 0, len(l.Steps)+1)
	path = append(path, l.StartPoint)
	for _, s := range l.Steps {
		path = append(path, s.EndPoint)
	}
	return path
}

// Cumulative distance from the route start to the end of each step.
func (l RouteLeg) CumulativeStepDistances() []float64 {
	out := make([]float64, len(l.Steps))
	total := 0.0
	for i, s := range l.Steps {
		total += s.DistanceMeters
		out[i] = total
	}
	return out
}
