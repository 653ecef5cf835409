package ports

import (
	"context"
	"fuel-trip-service/internal/domain"
)

// Renders a plan's route and stops into a persisted visual artifact.
type MapRenderer interface {
	// Return a path reference (relative to the public base URL) for the artifact.
	Render(ctx context.Context, plan *domain.FuelPlan) (string, error)
}
