package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-trip-service/internal/domain"
	"fuel-trip-service/internal/platform/obs"
)

// Postgres implementation of ports.PriceSource.
type PGPriceRepository struct {
	DB *sql.DB
}

func NewPGPriceRepository(db *sql.DB) *PGPriceRepository {
	return &PGPriceRepository{DB: db}
}

// Load all priced rows in insertion order.
func (r *PGPriceRepository) LoadPrices(ctx context.Context) (_ []domain.PriceEntry, err error) {
	defer obs.Time(ctx, "prices.LoadPrices")(&err)

	if r.DB == nil {
		return nil, errors.New("load prices: db is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT locality, stop_name, retail_price
	FROM fuel_prices
	WHERE retail_price IS NOT NULL
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("load prices: query fuel_prices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PriceEntry, 0)
	for rows.Next() {
		var e domain.PriceEntry
		if err := rows.Scan(&e.Locality, &e.StopName, &e.PricePerUnit); err != nil {
			return nil, fmt.Errorf("load prices: scan row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load prices: row iteration: %w", err)
	}

	return out, nil
}
