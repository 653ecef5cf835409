package maps

import (
	"encoding/json"
	"fmt"
	"fuel-trip-service/internal/domain"
	"os"
)

type mockFixture struct {
	Routes []MockRoute `json:"routes"`
	Stops  []struct {
		Point domain.GeoPoint        `json:"point"`
		Stops []domain.CandidateStop `json:"stops"`
	} `json:"stops"`
}

// LoadMockProvider builds a MockProvider from a JSON fixture file for offline runs.
// An empty path yields a provider without routes.
func LoadMockProvider(path string) (*MockProvider, error) {
	if path == "" {
		return NewMockProvider(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load mock fixture: read %q: %w", path, err)
	}

	var fx mockFixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("load mock fixture: parse %q: %w", path, err)
	}

	p := NewMockProvider(fx.Routes)
	for _, s := range fx.Stops {
		p.AddStops(s.Point, s.Stops...)
	}
	return p, nil
}
