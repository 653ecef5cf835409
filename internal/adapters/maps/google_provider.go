package maps

import (
	"context"
	"errors"
	"fmt"
	"fuel-trip-service/internal/adapters/cache"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"log"
	"net/http"
	"strings"
	"time"

	gmaps "googlemaps.github.io/maps"
)

// GoogleMapsProvider implements DirectionsProvider and PlacesProvider on top of
// the Google Maps Services client.
//
// It coordinates:
//   - Address normalization
//   - Persistent directions caching (Postgres)
//   - Expiring nearby-search caching (Redis)
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type GoogleMapsProvider struct {
	client      *gmaps.Client
	mode        gmaps.Mode
	routeCache  *cache.SQLRouteCache
	placesCache *cache.RedisPlacesCache
}

type providerOptions struct {
	session     *http.Client
	baseURL     string
	maxAttempts int
	backoff     time.Duration
	rateLimit   int
	routeCache  *cache.SQLRouteCache
	placesCache *cache.RedisPlacesCache
}

type Option func(*providerOptions)

// Override the API host, e.g. for an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(o *providerOptions) { o.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *providerOptions) { o.session = c }
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(o *providerOptions) {
		if maxAttempts > 0 {
			o.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			o.backoff = backoff
		}
	}
}

// Client-side request rate limit in queries per second.
func WithRateLimit(qps int) Option {
	return func(o *providerOptions) { o.rateLimit = qps }
}

func WithRouteCache(c *cache.SQLRouteCache) Option {
	return func(o *providerOptions) { o.routeCache = c }
}

func WithPlacesCache(c *cache.RedisPlacesCache) Option {
	return func(o *providerOptions) { o.placesCache = c }
}

func NewGoogleMapsProvider(apiKey string, opts ...Option) (*GoogleMapsProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}

	o := providerOptions{
		session:     &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.session.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	session := *o.session
	session.Transport = &retryTransport{base: base, maxAttempts: o.maxAttempts, backoff: o.backoff}

	clientOpts := []gmaps.ClientOption{
		gmaps.WithAPIKey(apiKey),
		gmaps.WithHTTPClient(&session),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, gmaps.WithBaseURL(o.baseURL))
	}
	if o.rateLimit > 0 {
		clientOpts = append(clientOpts, gmaps.WithRateLimit(o.rateLimit))
	}

	client, err := gmaps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("new google maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client:      client,
		mode:        gmaps.TravelModeDriving,
		routeCache:  o.routeCache,
		placesCache: o.placesCache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (g *GoogleMapsProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetRoutes returns one leg per route alternative between two addresses.
func (g *GoogleMapsProvider) GetRoutes(
	ctx context.Context,
	origin string,
	destination string,
	alternatives bool,
) (_ []domain.RouteLeg, err error) {
	defer obs.Time(ctx, "google.GetRoutes")(&err)

	normOrigin := g.normalize(origin)
	normDestination := g.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return nil, errors.New("get routes: origin and destination must be non-empty")
	}

	// Check persistent route cache before issuing external API calls.
	if g.routeCache != nil {
		legs, ok, err := g.routeCache.Get(ctx, normOrigin, normDestination, alternatives)
		if err != nil {
			log.Printf("route cache read failed: %v", err)
		} else if ok {
			return legs, nil
		}
	}

	legs, err := g.fetchDirections(ctx, normOrigin, normDestination, alternatives)
	if err != nil {
		return nil, fmt.Errorf("fetching directions %q -> %q: %w", normOrigin, normDestination, err)
	}

	if g.routeCache != nil && len(legs) > 0 {
		if err := g.routeCache.Put(ctx, normOrigin, normDestination, alternatives, legs); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return legs, nil
}

// FindNearby returns places of category within radiusMeters of point.
func (g *GoogleMapsProvider) FindNearby(
	ctx context.Context,
	point domain.GeoPoint,
	radiusMeters float64,
	category string,
) (_ []domain.CandidateStop, err error) {
	if radiusMeters <= 0 {
		return nil, errors.New("find nearby: radius must be positive")
	}

	if g.placesCache != nil {
		stops, ok, err := g.placesCache.Get(ctx, point, radiusMeters, category)
		if err != nil {
			log.Printf("places cache read failed: %v", err)
		} else if ok {
			return stops, nil
		}
	}

	stops, err := g.fetchNearby(ctx, point, radiusMeters, category)
	if err != nil {
		return nil, fmt.Errorf("nearby search at %.6f,%.6f: %w", point.Lat, point.Lng, err)
	}

	if g.placesCache != nil {
		if err := g.placesCache.Put(ctx, point, radiusMeters, category, stops); err != nil {
			log.Printf("places cache write failed: %v", err)
		}
	}

	return stops, nil
}
