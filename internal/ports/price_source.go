package ports

import (
	"context"
	"fuel-trip-service/internal/domain"
)

// Port: a boundary for loading the fuel price reference table.
type PriceSource interface {
	// Return every priced row in load order. Rows without a usable price are excluded.
	LoadPrices(ctx context.Context) ([]domain.PriceEntry, error)
}
