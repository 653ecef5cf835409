package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLRouteCache is a Postgres-backed cache of directions results keyed by
// (origin, destination, alternatives). Legs are stored as a JSONB document.
type SQLRouteCache struct {
	DB *sql.DB
	// Entries older than MaxAge are treated as misses; zero keeps them forever.
	MaxAge time.Duration
}

func NewSQLRouteCache(db *sql.DB, maxAge time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, MaxAge: maxAge}
}

// Fetch cached route legs. ok is false on a miss.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
	alternatives bool,
) (_ []domain.RouteLeg, ok bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, false, errors.New("get route cache: origin and destination must not be empty")
	}

	notBefore := time.Time{}
	if s.MaxAge > 0 {
		notBefore = time.Now().Add(-s.MaxAge)
	}

	q := `
	SELECT legs
    FROM route_cache
    WHERE origin = $1
        AND destination = $2
        AND alternatives = $3
        AND fetched_at >= $4;
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, origin, destination, alternatives, notBefore).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var legs []domain.RouteLeg
	if err := json.Unmarshal(payload, &legs); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode legs: %w", err)
	}

	return legs, true, nil
}

// Store route legs for an origin/destination pair, replacing any previous entry.
func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	alternatives bool,
	legs []domain.RouteLeg,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	payload, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("insert route cache: encode legs: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, alternatives, legs, fetched_at)
    VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (origin, destination, alternatives) DO UPDATE
	SET legs = EXCLUDED.legs,
		fetched_at = EXCLUDED.fetched_at;
	`, origin, destination, alternatives, payload)
	if err != nil {
		return fmt.Errorf("insert route cache origin=%q destination=%q: %w", origin, destination, err)
	}

	return nil
}
