package mapview

import (
	"context"
	"fuel-trip-service/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendererWritesUniquePages(t *testing.T) {
	dir := t.TempDir()
	r := NewHTMLRenderer(dir, "/static/maps")

	price := 3.2
	dist := 1200.0
	plan := &domain.FuelPlan{
		Route: domain.RouteLeg{
			StartPoint: domain.GeoPoint{Lat: 37.2, Lng: -93.3},
			EndPoint:   domain.GeoPoint{Lat: 38.6, Lng: -90.2},
			Steps: []domain.RouteStep{
				{EndPoint: domain.GeoPoint{Lat: 37.9, Lng: -91.7}, DistanceMeters: 1000},
				{EndPoint: domain.GeoPoint{Lat: 38.6, Lng: -90.2}, DistanceMeters: 2000},
			},
		},
		SelectedStops: []domain.MatchedStop{
			{
				CandidateStop: domain.CandidateStop{Name: "Shell <Truck> Stop", Locality: "Rolla", DistanceFromOriginMeters: &dist},
				MatchedPrice:  &price,
			},
			{CandidateStop: domain.CandidateStop{Name: "Corner Gas", Locality: "Cuba"}},
		},
		TotalCost: 42,
	}

	ref1, err := r.Render(context.Background(), plan)
	require.NoError(t, err)
	ref2, err := r.Render(context.Background(), plan)
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
	assert.True(t, strings.HasPrefix(ref1, "/static/maps/route-"))

	body, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref1)))
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, "Fuel plan $42.00")
	assert.Contains(t, html, "purple")
	assert.Contains(t, html, "blue")
	// Stop names are escaped inside the script block.
	assert.NotContains(t, html, "Shell <Truck> Stop")
}

func TestBuildMapDataEscapesPopupText(t *testing.T) {
	price := 3.2
	plan := &domain.FuelPlan{SelectedStops: []domain.MatchedStop{
		{
			CandidateStop: domain.CandidateStop{Name: `<img src=x onerror="alert(1)">`, Locality: "Rolla & Co"},
			MatchedPrice:  &price,
		},
	}}

	d := buildMapData(plan)
	require.Len(t, d.Stops, 1)

	popup := d.Stops[0].Popup
	assert.Equal(t,
		"&lt;img src=x onerror=&#34;alert(1)&#34;&gt;<br>Rolla &amp; Co<br>Unknown meters<br>$3.20/unit",
		popup,
	)
	assert.NotContains(t, popup, "\n")
}

func TestBuildMapDataUsesRoutePath(t *testing.T) {
	plan := &domain.FuelPlan{Route: domain.RouteLeg{
		StartPoint: domain.GeoPoint{Lat: 1, Lng: 2},
		EndPoint:   domain.GeoPoint{Lat: 5, Lng: 6},
		Steps:      []domain.RouteStep{{EndPoint: domain.GeoPoint{Lat: 3, Lng: 4}}, {EndPoint: domain.GeoPoint{Lat: 5, Lng: 6}}},
	}}

	d := buildMapData(plan)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, d.Path)
	assert.Empty(t, d.Stops)
}
