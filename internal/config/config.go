package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service.
type Config struct {
	Server   ServerConfig
	Maps     MapsConfig
	Prices   PricesConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Trip     TripConfig
	Vehicle  VehicleConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Directory receiving rendered maps, served under /static/maps/.
	StaticDir string `validate:"required"`
	// Optional absolute base for map links; derived from the request when empty.
	PublicBaseURL string `validate:"omitempty,url"`
}

// MapsConfig selects the directions/places provider.
type MapsConfig struct {
	Provider string `validate:"oneof=google mock"`
	APIKey   string `validate:"required_if=Provider google"`
	BaseURL  string `validate:"omitempty,url"`
	Timeout  time.Duration
	// Client-side queries per second; zero keeps the client default.
	RateLimit int `validate:"gte=0"`
	// JSON fixture served by the mock provider.
	FixturePath string
}

// PricesConfig selects where the price reference table is loaded from.
type PricesConfig struct {
	Source  string `validate:"oneof=csv postgres"`
	CSVPath string `validate:"required_if=Source csv"`
}

// DatabaseConfig holds Postgres configuration. An empty URL disables the route cache.
type DatabaseConfig struct {
	URL              string
	RouteCacheMaxAge time.Duration
}

// RedisConfig holds Redis configuration. An empty Addr disables the places cache.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int `validate:"gte=0"`
	PlacesTTL time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// TripConfig tunes the trip planner.
type TripConfig struct {
	SearchRadiusMeters float64 `validate:"gt=0"`
	Category           string  `validate:"required"`
	ExternalTimeout    time.Duration
	LookupWorkers      int `validate:"gte=1"`
	MatchWorkers       int `validate:"gte=1"`
	RouteWorkers       int `validate:"gte=1"`
}

// VehicleConfig is the vehicle profile in miles and miles per fuel unit.
// It can be overridden by a YAML file (VEHICLE_PROFILE_PATH).
type VehicleConfig struct {
	RangeMiles   float64 `yaml:"range_miles" validate:"gt=0"`
	MilesPerUnit float64 `yaml:"miles_per_gallon" validate:"gt=0"`
	DefaultPrice float64 `yaml:"default_price" validate:"gte=0"`
}

// Load reads configuration from environment variables and the optional
// vehicle profile file, then validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:          Get("PORT", "8080"),
			ReadTimeout:   getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
			StaticDir:     Get("STATIC_DIR", "static/maps"),
			PublicBaseURL: Get("PUBLIC_BASE_URL", ""),
		},
		Maps: MapsConfig{
			Provider:    strings.ToLower(Get("MAPS_PROVIDER", "google")),
			APIKey:      os.Getenv("GOOGLE_MAPS_API_KEY"),
			BaseURL:     Get("GOOGLE_MAPS_BASE_URL", ""),
			Timeout:     getDurationEnv("GOOGLE_MAPS_TIMEOUT", 10*time.Second),
			RateLimit:   getIntEnv("GOOGLE_MAPS_QPS", 0),
			FixturePath: os.Getenv("MOCK_FIXTURE_PATH"),
		},
		Prices: PricesConfig{
			Source:  strings.ToLower(Get("PRICE_SOURCE", "csv")),
			CSVPath: Get("PRICE_CSV_PATH", "fuel.csv"),
		},
		Database: DatabaseConfig{
			URL:              os.Getenv("DATABASE_URL"),
			RouteCacheMaxAge: getDurationEnv("ROUTE_CACHE_MAX_AGE", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        getIntEnv("REDIS_DB", 0),
			PlacesTTL: getDurationEnv("PLACES_CACHE_TTL", 24*time.Hour),
		},
		NewRelic: NewRelicConfig{
			AppName:    Get("NEW_RELIC_APP_NAME", "fuel-trip-service"),
			LicenseKey: os.Getenv("NEW_RELIC_LICENSE_KEY"),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Trip: TripConfig{
			SearchRadiusMeters: getFloatEnv("STOP_SEARCH_RADIUS_METERS", 150),
			Category:           Get("STOP_CATEGORY", "gas_station"),
			ExternalTimeout:    getDurationEnv("EXTERNAL_TIMEOUT", 60*time.Second),
			LookupWorkers:      getIntEnv("LOOKUP_WORKERS", 5),
			MatchWorkers:       getIntEnv("MATCH_WORKERS", 8),
			RouteWorkers:       getIntEnv("ROUTE_WORKERS", 4),
		},
		Vehicle: VehicleConfig{
			RangeMiles:   getFloatEnv("VEHICLE_RANGE_MILES", 500),
			MilesPerUnit: getFloatEnv("VEHICLE_MPG", 10),
			DefaultPrice: getFloatEnv("DEFAULT_FUEL_PRICE", 3.6),
		},
	}

	if path := os.Getenv("VEHICLE_PROFILE_PATH"); path != "" {
		if err := loadVehicleFile(path, &cfg.Vehicle); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	v := validator.New()
	for _, s := range []any{c.Server, c.Maps, c.Prices, c.Redis, c.Trip, c.Vehicle} {
		if err := v.Struct(s); err != nil {
			return err
		}
	}

	if c.Prices.Source == "postgres" && strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required when PRICE_SOURCE=postgres")
	}
	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" {
		return errors.New("NEW_RELIC_LICENSE_KEY is required when NEW_RELIC_ENABLED=true")
	}

	return nil
}

// loadVehicleFile overlays fields present in a YAML vehicle profile.
func loadVehicleFile(path string, v *VehicleConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read vehicle profile %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse vehicle profile %q: %w", path, err)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
