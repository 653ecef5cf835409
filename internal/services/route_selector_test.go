package services

import (
	"context"
	"errors"
	"fuel-trip-service/internal/domain"
	"math"
	"testing"
)

func springfieldStop(mi float64) domain.CandidateStop {
	return domain.CandidateStop{
		ID:                       "shell-springfield",
		Name:                     "Shell Truck Stop",
		Locality:                 "Springfield",
		DistanceFromOriginMeters: milesFromOrigin(mi),
	}
}

func TestSelectCheapestNoRoutes(t *testing.T) {
	s := NewRouteSelector(NewStopMatcher(springfieldTable(), 1), 1)

	_, err := s.SelectCheapest(context.Background(), nil, domain.DefaultVehicleProfile())
	if !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("expected ErrNoRoutes, got %v", err)
	}
}

func TestSelectCheapestPicksLowestCost(t *testing.T) {
	s := NewRouteSelector(NewStopMatcher(springfieldTable(), 2), 2)

	routes := []RouteCandidate{
		{Leg: domain.RouteLeg{Summary: "I-70", TotalDistanceMeters: thousandMiles}},
		{
			Leg:   domain.RouteLeg{Summary: "I-44", TotalDistanceMeters: thousandMiles},
			Stops: []domain.CandidateStop{springfieldStop(250)},
		},
	}

	plan, err := s.SelectCheapest(context.Background(), routes, domain.DefaultVehicleProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Route.Summary != "I-44" {
		t.Fatalf("expected I-44, got %q", plan.Route.Summary)
	}
	if math.Abs(plan.TotalCost-320) > 1e-6 {
		t.Fatalf("expected cost 320, got %v", plan.TotalCost)
	}
	if len(plan.SelectedStops) != 1 || !plan.SelectedStops[0].Matched() {
		t.Fatalf("expected one matched stop, got %+v", plan.SelectedStops)
	}
}

func TestSelectCheapestTieKeepsFirstRoute(t *testing.T) {
	s := NewRouteSelector(NewStopMatcher(springfieldTable(), 1), 4)

	routes := []RouteCandidate{
		{Leg: domain.RouteLeg{Summary: "first", TotalDistanceMeters: thousandMiles}},
		{Leg: domain.RouteLeg{Summary: "second", TotalDistanceMeters: thousandMiles}},
		{Leg: domain.RouteLeg{Summary: "third", TotalDistanceMeters: thousandMiles}},
	}

	for i := 0; i < 20; i++ {
		plan, err := s.SelectCheapest(context.Background(), routes, domain.DefaultVehicleProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.Route.Summary != "first" {
			t.Fatalf("expected first route on tie, got %q", plan.Route.Summary)
		}
	}
}

func TestSelectCheapestSkipsInfeasibleRoutes(t *testing.T) {
	s := NewRouteSelector(NewStopMatcher(springfieldTable(), 1), 2)

	routes := []RouteCandidate{
		{Leg: domain.RouteLeg{Summary: "broken", TotalDistanceMeters: 0}},
		{Leg: domain.RouteLeg{Summary: "ok", TotalDistanceMeters: 2 * thousandMiles}},
	}

	plan, err := s.SelectCheapest(context.Background(), routes, domain.DefaultVehicleProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Route.Summary != "ok" {
		t.Fatalf("expected ok route, got %q", plan.Route.Summary)
	}

	_, err = s.SelectCheapest(context.Background(), routes[:1], domain.DefaultVehicleProfile())
	if !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("expected ErrNoRoutes when every route is infeasible, got %v", err)
	}
}

func TestSelectCheapestComparesTotalCost(t *testing.T) {
	s := NewRouteSelector(NewStopMatcher(nil, 1), 2)
	profile := domain.VehicleProfile{RangeMeters: 1000, MetersPerUnit: 1, DefaultPricePerUnit: 1}

	routes := []RouteCandidate{
		{Leg: domain.RouteLeg{Summary: "fifty", TotalDistanceMeters: 50}},
		{Leg: domain.RouteLeg{Summary: "forty-two", TotalDistanceMeters: 42}},
	}

	plan, err := s.SelectCheapest(context.Background(), routes, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Route.Summary != "forty-two" || plan.TotalCost != 42 {
		t.Fatalf("expected the $42 plan, got %q at %v", plan.Route.Summary, plan.TotalCost)
	}
}
