package maps

import (
	"context"
	"fuel-trip-service/internal/domain"
	"math"
	"strings"

	gmaps "googlemaps.github.io/maps"
)

// fetchNearby runs a Nearby Search around point. Only the first result page is
// read; with the small radius used around route steps it holds every match.
func (g *GoogleMapsProvider) fetchNearby(
	ctx context.Context,
	point domain.GeoPoint,
	radiusMeters float64,
	category string,
) ([]domain.CandidateStop, error) {
	req := &gmaps.NearbySearchRequest{
		Location: &gmaps.LatLng{Lat: point.Lat, Lng: point.Lng},
		Radius:   uint(math.Ceil(radiusMeters)),
	}
	if category != "" {
		req.Type = gmaps.PlaceType(category)
	}

	resp, err := g.client.NearbySearch(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CandidateStop, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, domain.CandidateStop{
			ID:       r.PlaceID,
			Name:     strings.TrimSpace(r.Name),
			Locality: localityFromVicinity(r.Vicinity),
			Position: toGeoPoint(r.Geometry.Location),
		})
	}

	return out, nil
}

// localityFromVicinity extracts the town from a simplified address such as
// "1200 Main St, Springfield". A vicinity without commas is returned as is.
func localityFromVicinity(vicinity string) string {
	parts := strings.Split(vicinity, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
