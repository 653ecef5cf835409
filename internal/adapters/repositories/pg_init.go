package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"strings"
)

// Initialize the Postgres schema used by the price repository and route cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createFuelPricesQuery := `
	CREATE TABLE IF NOT EXISTS fuel_prices (
		id BIGSERIAL PRIMARY KEY,
		locality TEXT NOT NULL,
		stop_name TEXT NOT NULL,
		retail_price DOUBLE PRECISION
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        alternatives BOOLEAN NOT NULL,
        legs JSONB NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (origin, destination, alternatives)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_fuel_prices_locality
    ON fuel_prices(locality);
	`

	statements := []string{
		createFuelPricesQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the contents of fuel_prices with entries, preserving their order.
func SeedPrices(ctx context.Context, db *sql.DB, entries []domain.PriceEntry) error {
	if db == nil {
		return errors.New("seed prices: DB is nil")
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Locality) == "" || strings.TrimSpace(e.StopName) == "" {
			return fmt.Errorf("seed prices: entry %d: locality and name cannot be empty", i+1)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed prices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE fuel_prices RESTART IDENTITY;`); err != nil {
		return fmt.Errorf("seed prices: truncate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO fuel_prices (
		locality,
		stop_name,
		retail_price
	)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("seed prices: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, strings.TrimSpace(e.Locality), strings.TrimSpace(e.StopName), e.PricePerUnit); err != nil {
			return fmt.Errorf("seed prices: insert entry %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed prices: commit tx: %w", err)
	}

	return nil
}
