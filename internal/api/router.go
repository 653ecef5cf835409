package api

import (
	"fuel-trip-service/internal/api/handlers"
	"fuel-trip-service/internal/ports"
	"fuel-trip-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const staticMapsPrefix = "/static/maps/"

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	Planner       *services.TripPlanner
	Renderer      ports.MapRenderer
	StaticDir     string
	PublicBaseURL string
	// Optional; nil disables APM instrumentation.
	NewRelicApp *newrelic.Application
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	if deps.NewRelicApp != nil {
		r.Use(newRelicMiddleware(deps.NewRelicApp))
	}

	tripHandler := &handlers.TripHandler{
		Planner:       deps.Planner,
		Renderer:      deps.Renderer,
		PublicBaseURL: deps.PublicBaseURL,
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/calculate-fuel-trip", tripHandler.Calculate).Methods(http.MethodPost)
	r.HandleFunc("/calculate-fuel-trip/", tripHandler.Calculate).Methods(http.MethodPost)
	r.PathPrefix(staticMapsPrefix).
		Handler(http.StripPrefix(staticMapsPrefix, http.FileServer(http.Dir(deps.StaticDir)))).
		Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(r))
}
