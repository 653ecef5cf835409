package services

import (
	"fmt"
	"fuel-trip-service/internal/domain"
	"math"
)

// Plan the fuel cost of a single route using a greedy range filter.
//
// Stops are taken in route order. A stop is retained when the distance from the
// previously retained stop (or the route start) fits within the vehicle range.
// A skipped stop is never reconsidered, even if a later refuel would have made it
// reachable: this is a single-pass approximation, not an optimal solver.
// Stops with a missing, NaN or infinite distance are never retained.
//
// The whole trip's consumption is priced at the cheapest matched price among the
// retained stops, or at the profile's default price when none matched.
func PlanRange(
	route domain.RouteLeg,
	stops []domain.MatchedStop,
	profile domain.VehicleProfile,
) (*domain.FuelPlan, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("plan range: %w: %w", ErrInfeasibleRoute, err)
	}

	totalDistance := route.TotalDistanceMeters
	if !(totalDistance > 0) || math.IsInf(totalDistance, 0) {
		return nil, fmt.Errorf("plan range: %w: total distance %v", ErrInfeasibleRoute, totalDistance)
	}

	fuelNeeded := totalDistance / profile.MetersPerUnit

	retained := make([]domain.MatchedStop, 0, len(stops))
	lastDistance := 0.0
	for _, s := range stops {
		if s.DistanceFromOriginMeters == nil {
			continue
		}

		d := *s.DistanceFromOriginMeters
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		if d-lastDistance > profile.RangeMeters {
			continue
		}

		retained = append(retained, s)
		lastDistance = d
	}

	price := profile.DefaultPricePerUnit
	usedDefault := true
	for _, s := range retained {
		if !s.Matched() {
			continue
		}
		if usedDefault || *s.MatchedPrice < price {
			price = *s.MatchedPrice
			usedDefault = false
		}
	}

	return &domain.FuelPlan{
		Route:            route,
		SelectedStops:    retained,
		FuelNeeded:       fuelNeeded,
		PricePerUnit:     price,
		UsedDefaultPrice: usedDefault,
		TotalCost:        fuelNeeded * price,
	}, nil
}
