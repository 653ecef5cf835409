package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"fuel-trip-service/internal/ports"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type TripPlannerConfig struct {
	// Search radius around each route step end point.
	SearchRadiusMeters float64
	// Place category passed to the places provider.
	Category string
	// Upper bound for all provider calls of one trip; zero disables it.
	ExternalTimeout time.Duration
	// Concurrent places lookups per route.
	LookupWorkers int
}

func DefaultTripPlannerConfig() TripPlannerConfig {
	return TripPlannerConfig{
		SearchRadiusMeters: 150,
		Category:           "gas_station",
		ExternalTimeout:    60 * time.Second,
		LookupWorkers:      5,
	}
}

// TripPlanner resolves routes and fuel stops for a trip and picks the cheapest plan.
type TripPlanner struct {
	directions ports.DirectionsProvider
	places     ports.PlacesProvider
	selector   *RouteSelector
	profile    domain.VehicleProfile
	cfg        TripPlannerConfig
}

func NewTripPlanner(
	directions ports.DirectionsProvider,
	places ports.PlacesProvider,
	selector *RouteSelector,
	profile domain.VehicleProfile,
	cfg TripPlannerConfig,
) *TripPlanner {
	if cfg.LookupWorkers < 1 {
		cfg.LookupWorkers = 1
	}
	return &TripPlanner{
		directions: directions,
		places:     places,
		selector:   selector,
		profile:    profile,
		cfg:        cfg,
	}
}

// Plan returns the cheapest fuel plan between two addresses.
//
// Errors: ErrMissingAddress for blank input, *ExternalError when a provider
// fails or the trip deadline expires, ErrNoRoutes when nothing can be costed.
func (p *TripPlanner) Plan(ctx context.Context, start, end string) (_ *domain.FuelPlan, err error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, ErrMissingAddress
	}

	defer obs.Time(ctx, "trip.Plan")(&err)

	if p.cfg.ExternalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ExternalTimeout)
		defer cancel()
	}

	legs, err := p.directions.GetRoutes(ctx, start, end, true)
	if err != nil {
		return nil, &ExternalError{Op: "error fetching directions", Err: err}
	}
	if len(legs) == 0 {
		return nil, ErrNoRoutes
	}

	candidates := make([]RouteCandidate, 0, len(legs))
	for i, leg := range legs {
		stops, err := p.collectStops(ctx, leg)
		if err != nil {
			return nil, err
		}
		log.Printf("req_id=%s route=%d summary=%q distance_m=%.0f steps=%d candidates=%d",
			obs.RequestID(ctx), i, leg.Summary, leg.TotalDistanceMeters, len(leg.Steps), len(stops))
		candidates = append(candidates, RouteCandidate{Leg: leg, Stops: stops})
	}

	plan, err := p.selector.SelectCheapest(ctx, candidates, p.profile)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	return plan, nil
}

// collectSteps runs one places lookup per step end point, each into its own slot.
// A failed lookup yields zero candidates for that step. Only an expired or
// cancelled context aborts the trip.
func (p *TripPlanner) collectSteps(ctx context.Context, leg domain.RouteLeg) ([][]domain.CandidateStop, error) {
	perStep := make([][]domain.CandidateStop, len(leg.Steps))

	var g errgroup.Group
	g.SetLimit(p.cfg.LookupWorkers)
	for i := range leg.Steps {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			found, err := p.places.FindNearby(ctx, leg.Steps[i].EndPoint, p.cfg.SearchRadiusMeters, p.cfg.Category)
			if err != nil {
				log.Printf("req_id=%s places lookup failed step=%d err=%v", obs.RequestID(ctx), i, err)
				return nil
			}
			perStep[i] = found
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &ExternalError{Op: "error searching fuel stops", Err: err}
	}
	return perStep, nil
}

// collectStops returns the leg's candidate stops in step order with their distance
// from the origin set: the route distance to the step end plus the straight-line
// offset to the stop. A stop found from several steps is kept once.
func (p *TripPlanner) collectStops(ctx context.Context, leg domain.RouteLeg) ([]domain.CandidateStop, error) {
	perStep, err := p.collectSteps(ctx, leg)
	if err != nil {
		return nil, err
	}

	cumulative := leg.CumulativeStepDistances()
	seen := make(map[string]struct{})
	stops := make([]domain.CandidateStop, 0)

	for i, found := range perStep {
		stepEnd := leg.Steps[i].EndPoint
		for _, s := range found {
			key := stopKey(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			if s.DistanceFromOriginMeters == nil {
				d := cumulative[i] + stepEnd.DistanceTo(s.Position)
				s.DistanceFromOriginMeters = &d
			}
			stops = append(stops, s)
		}
	}

	return stops, nil
}

func stopKey(s domain.CandidateStop) string {
	if s.ID != "" {
		return s.ID
	}
	return domain.Normalize(s.Name) + "|" +
		strconv.FormatFloat(s.Position.Lat, 'f', 6, 64) + "," +
		strconv.FormatFloat(s.Position.Lng, 'f', 6, 64)
}

// IsExternal reports whether err came from a provider failure.
func IsExternal(err error) bool {
	var ext *ExternalError
	return errors.As(err, &ext)
}
