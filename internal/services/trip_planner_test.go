package services

import (
	"context"
	"errors"
	"fuel-trip-service/internal/adapters/maps"
	"fuel-trip-service/internal/domain"
	"math"
	"testing"
	"time"
)

var (
	tripStart = domain.GeoPoint{Lat: 37.0, Lng: -94.0}
	stepOne   = domain.GeoPoint{Lat: 37.0, Lng: -93.5}
	stepTwo   = domain.GeoPoint{Lat: 37.2, Lng: -93.3}
)

func tripLeg() domain.RouteLeg {
	return domain.RouteLeg{
		Summary:             "I-44 E",
		StartPoint:          tripStart,
		EndPoint:            stepTwo,
		TotalDistanceMeters: 80_000,
		Steps: []domain.RouteStep{
			{EndPoint: stepOne, DistanceMeters: 45_000},
			{EndPoint: stepTwo, DistanceMeters: 35_000},
		},
	}
}

func newTestPlanner(provider *maps.MockProvider) *TripPlanner {
	selector := NewRouteSelector(NewStopMatcher(springfieldTable(), 2), 2)
	return NewTripPlanner(provider, provider, selector, domain.DefaultVehicleProfile(), DefaultTripPlannerConfig())
}

func TestTripPlannerMissingAddress(t *testing.T) {
	p := newTestPlanner(maps.NewMockProvider(nil))

	for _, tc := range [][2]string{{"", "Tulsa, OK"}, {"Joplin, MO", "   "}} {
		if _, err := p.Plan(context.Background(), tc[0], tc[1]); !errors.Is(err, ErrMissingAddress) {
			t.Fatalf("Plan(%q, %q): expected ErrMissingAddress, got %v", tc[0], tc[1], err)
		}
	}
}

func TestTripPlannerDirectionsFailure(t *testing.T) {
	p := newTestPlanner(maps.NewMockProvider(nil))

	_, err := p.Plan(context.Background(), "Joplin, MO", "Tulsa, OK")
	if !IsExternal(err) {
		t.Fatalf("expected external error, got %v", err)
	}

	var ext *ExternalError
	errors.As(err, &ext)
	if ext.Op != "error fetching directions" {
		t.Fatalf("unexpected op %q", ext.Op)
	}
}

func TestTripPlannerNoRoutes(t *testing.T) {
	provider := maps.NewMockProvider([]maps.MockRoute{{From: "Joplin, MO", To: "Tulsa, OK"}})
	p := newTestPlanner(provider)

	if _, err := p.Plan(context.Background(), "Joplin, MO", "Tulsa, OK"); !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("expected ErrNoRoutes, got %v", err)
	}
}

func TestTripPlannerPlansWithStops(t *testing.T) {
	shell := domain.CandidateStop{
		ID:       "place-1",
		Name:     "Shell Truck Stop",
		Locality: "Springfield",
		Position: stepOne,
	}

	provider := maps.NewMockProvider([]maps.MockRoute{
		{From: "Joplin, MO", To: "Tulsa, OK", Legs: []domain.RouteLeg{tripLeg()}},
	})
	provider.AddStops(stepOne, shell)
	provider.AddStops(stepTwo, shell)

	p := newTestPlanner(provider)

	plan, err := p.Plan(context.Background(), "  Joplin, MO ", "Tulsa, OK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.Lookups() != 2 {
		t.Fatalf("expected one lookup per step, got %d", provider.Lookups())
	}
	if len(plan.SelectedStops) != 1 {
		t.Fatalf("expected duplicate stop to be collapsed, got %d stops", len(plan.SelectedStops))
	}

	stop := plan.SelectedStops[0]
	if stop.DistanceFromOriginMeters == nil || math.Abs(*stop.DistanceFromOriginMeters-45_000) > 1e-6 {
		t.Fatalf("expected distance 45000, got %v", stop.DistanceFromOriginMeters)
	}
	if !stop.Matched() || *stop.MatchedPrice != 3.20 {
		t.Fatalf("expected match at 3.20, got %+v", stop)
	}

	wantCost := 80_000 / (10 * domain.MetersPerMile) * 3.20
	if math.Abs(plan.TotalCost-wantCost) > 1e-9 {
		t.Fatalf("expected cost %v, got %v", wantCost, plan.TotalCost)
	}
}

func TestTripPlannerAddsOffsetFromStepEnd(t *testing.T) {
	offStop := domain.CandidateStop{ID: "place-2", Name: "Corner Gas", Locality: "Mount Vernon", Position: domain.GeoPoint{Lat: 37.001, Lng: -93.5}}

	provider := maps.NewMockProvider([]maps.MockRoute{
		{From: "Joplin, MO", To: "Tulsa, OK", Legs: []domain.RouteLeg{tripLeg()}},
	})
	provider.AddStops(stepOne, offStop)

	plan, err := newTestPlanner(provider).Plan(context.Background(), "Joplin, MO", "Tulsa, OK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.SelectedStops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(plan.SelectedStops))
	}

	want := 45_000 + stepOne.DistanceTo(offStop.Position)
	if got := *plan.SelectedStops[0].DistanceFromOriginMeters; math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected distance %v, got %v", want, got)
	}
	if !plan.UsedDefaultPrice {
		t.Fatalf("expected default price for an unmatched stop")
	}
}

func TestTripPlannerToleratesPlacesFailure(t *testing.T) {
	provider := maps.NewMockProvider([]maps.MockRoute{
		{From: "Joplin, MO", To: "Tulsa, OK", Legs: []domain.RouteLeg{tripLeg()}},
	})
	provider.FailAt(stepOne, errors.New("OVER_QUERY_LIMIT"))

	plan, err := newTestPlanner(provider).Plan(context.Background(), "Joplin, MO", "Tulsa, OK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.SelectedStops) != 0 {
		t.Fatalf("expected no stops, got %d", len(plan.SelectedStops))
	}
	if !plan.UsedDefaultPrice {
		t.Fatalf("expected default price")
	}
}

func TestTripPlannerCancelledContext(t *testing.T) {
	provider := maps.NewMockProvider([]maps.MockRoute{
		{From: "Joplin, MO", To: "Tulsa, OK", Legs: []domain.RouteLeg{tripLeg()}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPlanner(provider).Plan(ctx, "Joplin, MO", "Tulsa, OK")
	if !IsExternal(err) {
		t.Fatalf("expected external error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

// blockingDirections and blockingPlaces wait for the request deadline.
type blockingDirections struct{}

func (blockingDirections) GetRoutes(ctx context.Context, origin, destination string, alternatives bool) ([]domain.RouteLeg, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type blockingPlaces struct{}

func (blockingPlaces) FindNearby(ctx context.Context, point domain.GeoPoint, radiusMeters float64, category string) ([]domain.CandidateStop, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func shortTimeoutConfig() TripPlannerConfig {
	cfg := DefaultTripPlannerConfig()
	cfg.ExternalTimeout = 20 * time.Millisecond
	return cfg
}

func TestTripPlannerDirectionsTimeout(t *testing.T) {
	selector := NewRouteSelector(NewStopMatcher(springfieldTable(), 1), 1)
	p := NewTripPlanner(blockingDirections{}, blockingPlaces{}, selector, domain.DefaultVehicleProfile(), shortTimeoutConfig())

	_, err := p.Plan(context.Background(), "Joplin, MO", "Tulsa, OK")
	if !IsExternal(err) {
		t.Fatalf("expected external error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}

func TestTripPlannerPlacesTimeout(t *testing.T) {
	provider := maps.NewMockProvider([]maps.MockRoute{
		{From: "Joplin, MO", To: "Tulsa, OK", Legs: []domain.RouteLeg{tripLeg()}},
	})
	selector := NewRouteSelector(NewStopMatcher(springfieldTable(), 1), 1)
	p := NewTripPlanner(provider, blockingPlaces{}, selector, domain.DefaultVehicleProfile(), shortTimeoutConfig())

	_, err := p.Plan(context.Background(), "Joplin, MO", "Tulsa, OK")
	if !IsExternal(err) {
		t.Fatalf("expected external error, got %v", err)
	}

	var ext *ExternalError
	errors.As(err, &ext)
	if ext.Op != "error searching fuel stops" {
		t.Fatalf("unexpected op %q", ext.Op)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}
