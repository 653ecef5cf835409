package maps

import (
	"context"
	"fmt"
	"fuel-trip-service/internal/domain"
	"strconv"
	"sync"
)

type MockRoute struct {
	From string            `json:"from"`
	To   string            `json:"to"`
	Legs []domain.RouteLeg `json:"legs"`
}

// MockProvider serves canned routes and stops. Nearby lookups are keyed by the
// exact step end point; unknown points return no stops. It records every lookup.
type MockProvider struct {
	routes  map[string][]domain.RouteLeg
	stops   map[string][]domain.CandidateStop
	failing map[string]error

	mu      sync.Mutex
	lookups int
}

func NewMockProvider(routes []MockRoute) *MockProvider {
	m := make(map[string][]domain.RouteLeg, len(routes))
	for _, r := range routes {
		m[r.From+"|"+r.To] = r.Legs
	}
	return &MockProvider{
		routes:  m,
		stops:   make(map[string][]domain.CandidateStop),
		failing: make(map[string]error),
	}
}

func pointKey(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// AddStops registers the stops returned for lookups around point.
func (p *MockProvider) AddStops(point domain.GeoPoint, stops ...domain.CandidateStop) *MockProvider {
	k := pointKey(point)
	p.stops[k] = append(p.stops[k], stops...)
	return p
}

// FailAt makes lookups around point return err.
func (p *MockProvider) FailAt(point domain.GeoPoint, err error) *MockProvider {
	p.failing[pointKey(point)] = err
	return p
}

func (p *MockProvider) Lookups() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookups
}

func (p *MockProvider) GetRoutes(ctx context.Context, origin, destination string, alternatives bool) ([]domain.RouteLeg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	legs, ok := p.routes[origin+"|"+destination]
	if !ok {
		return nil, fmt.Errorf("missing route %q -> %q", origin, destination)
	}
	if !alternatives && len(legs) > 1 {
		legs = legs[:1]
	}
	return legs, nil
}

func (p *MockProvider) FindNearby(ctx context.Context, point domain.GeoPoint, radiusMeters float64, category string) ([]domain.CandidateStop, error) {
	p.mu.Lock()
	p.lookups++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := pointKey(point)
	if err, ok := p.failing[k]; ok {
		return nil, err
	}
	return p.stops[k], nil
}
