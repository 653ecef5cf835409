package maps

import (
	"context"
	"fuel-trip-service/internal/domain"

	gmaps "googlemaps.github.io/maps"
)

func toGeoPoint(l gmaps.LatLng) domain.GeoPoint {
	return domain.GeoPoint{Lat: l.Lat, Lng: l.Lng}
}

// fetchDirections requests driving directions and converts every route's first
// leg. Routes without legs are dropped; a leg without a distance keeps a zero
// total so the planner can reject it.
func (g *GoogleMapsProvider) fetchDirections(
	ctx context.Context,
	origin string,
	destination string,
	alternatives bool,
) ([]domain.RouteLeg, error) {
	routes, _, err := g.client.Directions(ctx, &gmaps.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         g.mode,
		Alternatives: alternatives,
	})
	if err != nil {
		return nil, err
	}

	legs := make([]domain.RouteLeg, 0, len(routes))
	for _, r := range routes {
		if len(r.Legs) == 0 || r.Legs[0] == nil {
			continue
		}
		l := r.Legs[0]

		leg := domain.RouteLeg{
			Summary:             r.Summary,
			StartPoint:          toGeoPoint(l.StartLocation),
			EndPoint:            toGeoPoint(l.EndLocation),
			TotalDistanceMeters: float64(l.Distance.Meters),
			Steps:               make([]domain.RouteStep, 0, len(l.Steps)),
		}
		for _, s := range l.Steps {
			if s == nil {
				continue
			}
			leg.Steps = append(leg.Steps, domain.RouteStep{
				EndPoint:       toGeoPoint(s.EndLocation),
				DistanceMeters: float64(s.Distance.Meters),
			})
		}

		legs = append(legs, leg)
	}

	return legs, nil
}
