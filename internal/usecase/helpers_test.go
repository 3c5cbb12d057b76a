package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/services/forecast"

	"github.com/stretchr/testify/require"
)

var (
	testNow      = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	errNoHistory = errors.New("no history")
)

type fakePrices struct {
	mu         sync.Mutex
	current    float64
	currentErr error
	historical map[models.YearMonth]float64
	// priceOf, when set, answers any historical month not in historical.
	priceOf func(models.YearMonth) (float64, bool)
	calls   int
}

func (f *fakePrices) Current(context.Context) (models.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.currentErr != nil {
		return models.PriceQuote{}, f.currentErr
	}
	return models.PriceQuote{
		YearMonth: models.YearMonthOf(testNow),
		Price:     f.current,
		Source:    models.SourceCoinGecko,
	}, nil
}

func (f *fakePrices) RefreshCurrent(ctx context.Context) (models.PriceQuote, error) {
	return f.Current(ctx)
}

func (f *fakePrices) Historical(_ context.Context, ym models.YearMonth) (models.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if p, ok := f.historical[ym]; ok {
		return models.PriceQuote{YearMonth: ym, Price: p, Source: models.SourceCoinGecko}, nil
	}
	if f.priceOf != nil {
		if p, ok := f.priceOf(ym); ok {
			return models.PriceQuote{YearMonth: ym, Price: p, Source: models.SourceFallback}, nil
		}
	}
	return models.PriceQuote{}, errNoHistory
}

func testModel(t *testing.T) *forecast.Model {
	t.Helper()
	anchors, err := forecast.AnchorTableFromMap(map[int]float64{
		2030: 800_000,
		2040: 2_500_000,
		2050: 6_000_000,
	})
	require.NoError(t, err)
	m, err := forecast.NewModel(anchors, 22_000_000)
	require.NoError(t, err)
	return m
}

func ym(year, month int) models.YearMonth { return models.YearMonth{Year: year, Month: month} }
