package mapview

import (
	"context"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var data = {{.Data}};
var map = L.map("map").setView(data.start, 5);
L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);
var line = L.polyline(data.path, {color: "blue", weight: 5, opacity: 0.8}).addTo(map);
map.fitBounds(line.getBounds());
L.circleMarker(data.start, {color: "green", radius: 9}).bindPopup("Start").addTo(map);
L.circleMarker(data.end, {color: "red", radius: 9}).bindPopup("End").addTo(map);
data.stops.forEach(function (s) {
  L.circleMarker([s.lat, s.lng], {color: s.color, radius: 6}).bindPopup(s.popup).addTo(map);
});
</script>
</body>
</html>
`))

type stopMarker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Popup string  `json:"popup"`
	Color string  `json:"color"`
}

type mapData struct {
	Start []float64    `json:"start"`
	End   []float64    `json:"end"`
	Path  [][]float64  `json:"path"`
	Stops []stopMarker `json:"stops"`
}

// HTMLRenderer writes one self-contained Leaflet page per plan into Dir.
// Each page gets a unique name so concurrent requests never overwrite each other.
type HTMLRenderer struct {
	Dir       string
	URLPrefix string
}

func NewHTMLRenderer(dir, urlPrefix string) *HTMLRenderer {
	return &HTMLRenderer{Dir: dir, URLPrefix: urlPrefix}
}

// Render writes the map for plan and returns its path under URLPrefix.
func (r *HTMLRenderer) Render(ctx context.Context, plan *domain.FuelPlan) (_ string, err error) {
	defer obs.Time(ctx, "mapview.Render")(&err)

	if plan == nil {
		return "", errors.New("render map: plan is nil")
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("render map: create dir %q: %w", r.Dir, err)
	}

	name := "route-" + uuid.NewString() + ".html"
	f, err := os.Create(filepath.Join(r.Dir, name))
	if err != nil {
		return "", fmt.Errorf("render map: create file: %w", err)
	}
	defer f.Close()

	page := struct {
		Title string
		Data  mapData
	}{
		Title: fmt.Sprintf("Fuel plan %s", formatCost(plan.TotalCost)),
		Data:  buildMapData(plan),
	}
	if err := pageTemplate.Execute(f, page); err != nil {
		return "", fmt.Errorf("render map: execute template: %w", err)
	}

	return path.Join(r.URLPrefix, name), nil
}

func buildMapData(plan *domain.FuelPlan) mapData {
	route := plan.Route

	d := mapData{
		Start: route.StartPoint.LatLng(),
		End:   route.EndPoint.LatLng(),
		Path:  make([][]float64, 0, len(route.Steps)+1),
		Stops: make([]stopMarker, 0, len(plan.SelectedStops)),
	}
	for _, p := range route.Path() {
		d.Path = append(d.Path, p.LatLng())
	}

	for _, s := range plan.SelectedStops {
		// Matched stops are blue, unmatched purple.
		color := "purple"
		// Leaflet popups are HTML; provider text is escaped before joining.
		lines := []string{
			template.HTMLEscapeString(s.Name),
			template.HTMLEscapeString(s.Locality),
			formatDistance(s.DistanceFromOriginMeters),
		}
		if s.Matched() {
			color = "blue"
			lines = append(lines, formatCost(*s.MatchedPrice)+"/unit")
		}
		popup := strings.Join(lines, "<br>")
		d.Stops = append(d.Stops, stopMarker{
			Lat:   s.Position.Lat,
			Lng:   s.Position.Lng,
			Popup: popup,
			Color: color,
		})
	}

	return d
}

func formatCost(v float64) string { return fmt.Sprintf("$%.2f", v) }

func formatDistance(d *float64) string {
	if d == nil {
		return "Unknown meters"
	}
	return fmt.Sprintf("%.0f meters", *d)
}
