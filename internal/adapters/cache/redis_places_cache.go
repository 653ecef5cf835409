package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"strconv"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"
)

// PlacesCacheTTL bounds how long nearby-search results are reused.
const PlacesCacheTTL = 24 * time.Hour

const (
	placesCachePrefix = "cache:places:"
	// Eight geohash characters is a cell of roughly 38m x 19m.
	placesGeohashPrecision = 8
)

// RedisPlacesCache caches nearby-search results in Redis.
// Keys combine category, radius and the geohash of the search point.
type RedisPlacesCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlacesCache(client *redis.Client, ttl time.Duration) *RedisPlacesCache {
	if ttl <= 0 {
		ttl = PlacesCacheTTL
	}
	return &RedisPlacesCache{client: client, ttl: ttl}
}

func placesKey(point domain.GeoPoint, radiusMeters float64, category string) string {
	return placesCachePrefix + category + ":" +
		strconv.FormatFloat(radiusMeters, 'f', -1, 64) + ":" +
		geohash.EncodeWithPrecision(point.Lat, point.Lng, placesGeohashPrecision)
}

// Get returns cached stops for a search. ok is false on a miss.
func (s *RedisPlacesCache) Get(
	ctx context.Context,
	point domain.GeoPoint,
	radiusMeters float64,
	category string,
) ([]domain.CandidateStop, bool, error) {
	data, err := s.client.Get(ctx, placesKey(point, radiusMeters, category)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get places cache: %w", err)
	}

	var stops []domain.CandidateStop
	if err := json.Unmarshal(data, &stops); err != nil {
		return nil, false, fmt.Errorf("get places cache: decode: %w", err)
	}
	return stops, true, nil
}

// Put stores the stops for a search. An empty result is cached too.
func (s *RedisPlacesCache) Put(
	ctx context.Context,
	point domain.GeoPoint,
	radiusMeters float64,
	category string,
	stops []domain.CandidateStop,
) error {
	if stops == nil {
		stops = []domain.CandidateStop{}
	}
	data, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("put places cache: encode: %w", err)
	}
	if err := s.client.Set(ctx, placesKey(point, radiusMeters, category), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("put places cache: %w", err)
	}
	return nil
}
