package services

import (
	"context"
	"errors"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"log"

	"golang.org/x/sync/errgroup"
)

const defaultRouteWorkers = 4

// A route alternative together with the raw stops found along it, in route order.
type RouteCandidate struct {
	Leg   domain.RouteLeg
	Stops []domain.CandidateStop
}

// RouteSelector evaluates route alternatives and keeps the cheapest plan.
type RouteSelector struct {
	matcher *StopMatcher
	workers int
}

func NewRouteSelector(matcher *StopMatcher, workers int) *RouteSelector {
	if workers < 1 {
		workers = defaultRouteWorkers
	}
	return &RouteSelector{matcher: matcher, workers: workers}
}

// SelectCheapest matches and plans every route, returning the lowest-cost plan.
//
// Routes are evaluated concurrently but compared in input order once all results
// are in, so equal costs resolve to the first route. Routes that cannot be costed
// are skipped; if none remain the result is ErrNoRoutes.
func (s *RouteSelector) SelectCheapest(
	ctx context.Context,
	routes []RouteCandidate,
	profile domain.VehicleProfile,
) (*domain.FuelPlan, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}

	plans := make([]*domain.FuelPlan, len(routes))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range routes {
		g.Go(func() error {
			matched := s.matcher.MatchAll(routes[i].Stops)

			plan, err := PlanRange(routes[i].Leg, matched, profile)
			if err != nil {
				if !errors.Is(err, ErrInfeasibleRoute) {
					return err
				}
				log.Printf("req_id=%s route skipped index=%d summary=%q err=%v", obs.RequestID(ctx), i, routes[i].Leg.Summary, err)
				return nil
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *domain.FuelPlan
	for _, p := range plans {
		if p == nil {
			continue
		}
		if best == nil || p.TotalCost < best.TotalCost {
			best = p
		}
	}

	if best == nil {
		return nil, ErrNoRoutes
	}
	return best, nil
}
