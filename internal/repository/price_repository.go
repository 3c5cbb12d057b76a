package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HodlCalc/internal/domain/models"
	drepo "HodlCalc/internal/domain/repository"
	"HodlCalc/pkg/cache"
	applogger "HodlCalc/pkg/logger"
)

// ErrPriceUnavailable means the cache, the API and the fallback table all
// failed to produce a price.
var ErrPriceUnavailable = errors.New("price unavailable")

const (
	DefaultCurrentTTL    = time.Hour
	DefaultHistoricalTTL = 24 * time.Hour

	keyPrefix = "price"
)

// Lookup tiers reported to metrics.
const (
	tierCache    = "cache"
	tierAPI      = "api"
	tierFallback = "fallback"
)

// PriceRepository resolves observed prices through cache, API and fallback
// table, in that order. Only API results are cached.
type PriceRepository struct {
	source   drepo.PriceSource
	fallback drepo.FallbackPrices
	cache    cache.Service
	metrics  drepo.Metrics
	log      *applogger.Logger
	now      func() time.Time

	currentTTL    time.Duration
	historicalTTL time.Duration
}

// Option configures PriceRepository.
type Option func(*PriceRepository)

// WithTTLs sets cache lifetimes for current and historical prices.
func WithTTLs(current, historical time.Duration) Option {
	return func(r *PriceRepository) {
		if current > 0 {
			r.currentTTL = current
		}
		if historical > 0 {
			r.historicalTTL = historical
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *PriceRepository) { r.now = now }
}

// NewPriceRepository wires the lookup tiers. fallback may be nil.
func NewPriceRepository(
	source drepo.PriceSource,
	fallback drepo.FallbackPrices,
	c cache.Service,
	m drepo.Metrics,
	l *applogger.Logger,
	opts ...Option,
) *PriceRepository {
	r := &PriceRepository{
		source:        source,
		fallback:      fallback,
		cache:         c,
		metrics:       m,
		log:           l,
		now:           time.Now,
		currentTTL:    DefaultCurrentTTL,
		historicalTTL: DefaultHistoricalTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func currentKey() string { return cache.GenerateKey(keyPrefix, "current") }

func historicalKey(ym models.YearMonth) string {
	return cache.GenerateKeyWithParams(keyPrefix, "hist", ym.String())
}

// Current returns the live BTC/USD price.
func (r *PriceRepository) Current(ctx context.Context) (models.PriceQuote, error) {
	if q, ok := r.fromCache(ctx, currentKey()); ok {
		return q, nil
	}
	return r.fetchCurrent(ctx)
}

// RefreshCurrent fetches the live price and overwrites the cached one.
func (r *PriceRepository) RefreshCurrent(ctx context.Context) (models.PriceQuote, error) {
	return r.fetchCurrent(ctx)
}

func (r *PriceRepository) fetchCurrent(ctx context.Context) (models.PriceQuote, error) {
	now := r.now()
	ym := models.YearMonthOf(now)

	start := time.Now()
	price, apiErr := r.source.CurrentPrice(ctx)
	r.metrics.RecordLatency("price_current", time.Since(start).Seconds())
	if apiErr == nil {
		r.metrics.RecordPriceLookup(tierAPI, "hit")
		q := models.PriceQuote{YearMonth: ym, Price: price, Source: models.SourceCoinGecko, FetchedAt: now}
		r.store(ctx, currentKey(), q, r.currentTTL)
		r.metrics.RecordLastPrice(models.SourceCoinGecko, price)
		return q, nil
	}
	r.metrics.RecordPriceLookup(tierAPI, "error")
	r.log.Warn("current price fetch failed", applogger.Error(apiErr))

	q, fbErr := r.fromFallback(ym, now)
	if fbErr != nil {
		r.metrics.RecordError("price_unavailable")
		return models.PriceQuote{}, fmt.Errorf("current price: %w", errors.Join(ErrPriceUnavailable, apiErr, fbErr))
	}
	return q, nil
}

// Historical returns the observed price for a past month.
func (r *PriceRepository) Historical(ctx context.Context, ym models.YearMonth) (models.PriceQuote, error) {
	key := historicalKey(ym)
	if q, ok := r.fromCache(ctx, key); ok {
		return q, nil
	}

	now := r.now()
	start := time.Now()
	price, apiErr := r.source.HistoricalPrice(ctx, ym)
	r.metrics.RecordLatency("price_historical", time.Since(start).Seconds())
	if apiErr == nil {
		r.metrics.RecordPriceLookup(tierAPI, "hit")
		q := models.PriceQuote{YearMonth: ym, Price: price, Source: models.SourceCoinGecko, FetchedAt: now}
		r.store(ctx, key, q, r.historicalTTL)
		return q, nil
	}
	r.metrics.RecordPriceLookup(tierAPI, "error")
	r.log.Warn("historical price fetch failed",
		applogger.String("month", ym.String()),
		applogger.Error(apiErr),
	)

	q, fbErr := r.fromFallback(ym, now)
	if fbErr != nil {
		r.metrics.RecordError("price_unavailable")
		return models.PriceQuote{}, fmt.Errorf("historical price %s: %w", ym, errors.Join(ErrPriceUnavailable, apiErr, fbErr))
	}
	return q, nil
}

func (r *PriceRepository) fromCache(ctx context.Context, key string) (models.PriceQuote, bool) {
	if r.cache == nil {
		return models.PriceQuote{}, false
	}
	var q models.PriceQuote
	err := r.cache.Get(ctx, key, &q)
	switch {
	case err == nil:
		r.metrics.RecordPriceLookup(tierCache, "hit")
		q.Source = models.SourceCache
		return q, true
	case errors.Is(err, cache.ErrCacheMiss):
		r.metrics.RecordPriceLookup(tierCache, "miss")
	default:
		r.metrics.RecordPriceLookup(tierCache, "error")
		r.log.Warn("price cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	return models.PriceQuote{}, false
}

func (r *PriceRepository) store(ctx context.Context, key string, q models.PriceQuote, ttl time.Duration) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, q, ttl); err != nil {
		r.metrics.RecordError("cache_write")
		r.log.Warn("price cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (r *PriceRepository) fromFallback(ym models.YearMonth, now time.Time) (models.PriceQuote, error) {
	if r.fallback == nil {
		return models.PriceQuote{}, errors.New("no fallback table")
	}
	price, ok := r.fallback.Lookup(ym)
	if !ok {
		r.metrics.RecordPriceLookup(tierFallback, "miss")
		return models.PriceQuote{}, fmt.Errorf("no fallback price near %s", ym)
	}
	r.metrics.RecordPriceLookup(tierFallback, "hit")
	return models.PriceQuote{YearMonth: ym, Price: price, Source: models.SourceFallback, FetchedAt: now}, nil
}
