package repository

import (
	"context"

	"HodlCalc/internal/domain/models"
)

// PriceSource is an upstream market data API.
type PriceSource interface {
	CurrentPrice(ctx context.Context) (float64, error)
	HistoricalPrice(ctx context.Context, ym models.YearMonth) (float64, error)
}

// FallbackPrices is a static table consulted when the PriceSource fails.
type FallbackPrices interface {
	Lookup(ym models.YearMonth) (float64, bool)
}

// PriceRepository resolves observed (non-projected) prices.
type PriceRepository interface {
	Current(ctx context.Context) (models.PriceQuote, error)
	Historical(ctx context.Context, ym models.YearMonth) (models.PriceQuote, error)
	// RefreshCurrent bypasses the cache and stores a fresh current price.
	RefreshCurrent(ctx context.Context) (models.PriceQuote, error)
}

type Metrics interface {
	RecordPriceLookup(tier, result string)
	RecordError(kind string)
	RecordLastPrice(source string, price float64)
	RecordLatency(op string, seconds float64)
}
