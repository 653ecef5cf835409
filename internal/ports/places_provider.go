package ports

import (
	"context"
	"fuel-trip-service/internal/domain"
)

// Contract for finding points of interest around a location.
type PlacesProvider interface {
	// Return candidate stops of the given category within radiusMeters of point.
	// An empty result is valid.
	FindNearby(ctx context.Context, point domain.GeoPoint, radiusMeters float64, category string) ([]domain.CandidateStop, error)
}
