package ports

import (
	"context"
	"fuel-trip-service/internal/domain"
)

// Contract for retrieving driving routes between two addresses.
type DirectionsProvider interface {
	// Return one leg per candidate route, each with ordered steps and a total distance.
	GetRoutes(ctx context.Context, origin string, destination string, alternatives bool) ([]domain.RouteLeg, error)
}
