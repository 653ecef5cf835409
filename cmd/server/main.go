package main

import (
	"context"
	"database/sql"
	"errors"
	"fuel-trip-service/internal/adapters/cache"
	"fuel-trip-service/internal/adapters/mapview"
	"fuel-trip-service/internal/adapters/maps"
	"fuel-trip-service/internal/adapters/pricing"
	"fuel-trip-service/internal/adapters/repositories"
	"fuel-trip-service/internal/api"
	"fuel-trip-service/internal/config"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/db"
	"fuel-trip-service/internal/platform/kv"
	"fuel-trip-service/internal/platform/obs"
	"fuel-trip-service/internal/ports"
	"fuel-trip-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Google Maps, Postgres, Redis, CSV) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nrApp, err := obs.NewRelicApp(cfg.NewRelic)
	if err != nil {
		log.Printf("New Relic disabled: %v", err)
	} else if nrApp != nil {
		log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
	}

	var pg *sql.DB
	if cfg.Database.URL != "" {
		pg, err = db.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitSchema(ctx, pg); err != nil {
			log.Fatal(err)
		}
		log.Println("Connected to PostgreSQL")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = kv.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// The price table is loaded once and shared read-only by every request.
	entries, err := priceSource(cfg, pg).LoadPrices(ctx)
	if err != nil {
		log.Fatal(err)
	}
	table := domain.NewPriceTable(entries)
	log.Printf("price table ready localities=%d entries=%d", table.Localities(), table.Len())

	directions, places, err := buildProviders(cfg, pg, redisClient)
	if err != nil {
		log.Fatal(err)
	}

	profile, err := domain.NewVehicleProfile(cfg.Vehicle.RangeMiles, cfg.Vehicle.MilesPerUnit, cfg.Vehicle.DefaultPrice)
	if err != nil {
		log.Fatal(err)
	}

	matcher := services.NewStopMatcher(table, cfg.Trip.MatchWorkers)
	selector := services.NewRouteSelector(matcher, cfg.Trip.RouteWorkers)
	planner := services.NewTripPlanner(directions, places, selector, profile, services.TripPlannerConfig{
		SearchRadiusMeters: cfg.Trip.SearchRadiusMeters,
		Category:           cfg.Trip.Category,
		ExternalTimeout:    cfg.Trip.ExternalTimeout,
		LookupWorkers:      cfg.Trip.LookupWorkers,
	})

	server := wireServer(cfg, planner, nrApp)

	go func() {
		log.Printf("Server listening addr=:%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

func priceSource(cfg *config.Config, pg *sql.DB) ports.PriceSource {
	if cfg.Prices.Source == "postgres" {
		return repositories.NewPGPriceRepository(pg)
	}
	return pricing.NewCSVSource(cfg.Prices.CSVPath)
}

// buildProviders returns the directions and places adapters. Caches are attached
// only when their backing store is configured.
func buildProviders(cfg *config.Config, pg *sql.DB, redisClient *redis.Client) (ports.DirectionsProvider, ports.PlacesProvider, error) {
	if cfg.Maps.Provider == "mock" {
		mock, err := maps.LoadMockProvider(cfg.Maps.FixturePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("using mock maps provider fixture=%q", cfg.Maps.FixturePath)
		return mock, mock, nil
	}

	opts := []maps.Option{
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Maps.Timeout}),
	}
	if cfg.Maps.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.Maps.RateLimit))
	}
	if cfg.Maps.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.Maps.BaseURL))
	}
	if pg != nil {
		opts = append(opts, maps.WithRouteCache(cache.NewSQLRouteCache(pg, cfg.Database.RouteCacheMaxAge)))
	}
	if redisClient != nil {
		opts = append(opts, maps.WithPlacesCache(cache.NewRedisPlacesCache(redisClient, cfg.Redis.PlacesTTL)))
	}

	provider, err := maps.NewGoogleMapsProvider(cfg.Maps.APIKey, opts...)
	if err != nil {
		return nil, nil, err
	}
	return provider, provider, nil
}

// wireServer builds the router and the HTTP server.
func wireServer(cfg *config.Config, planner *services.TripPlanner, nrApp *newrelic.Application) *http.Server {
	renderer := mapview.NewHTMLRenderer(cfg.Server.StaticDir, "/static/maps")

	router := api.NewRouter(api.RouterDeps{
		Planner:       planner,
		Renderer:      renderer,
		StaticDir:     cfg.Server.StaticDir,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		NewRelicApp:   nrApp,
	})

	// Timeouts are tuned for cold-cache trip planning (one places call per route step).
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
