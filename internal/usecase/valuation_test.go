package usecase

import (
	"context"
	"math"
	"testing"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/services/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValuation(t *testing.T, prices *fakePrices) *ValuationUseCase {
	t.Helper()
	m := testModel(t)
	return NewValuationUseCase(NewPriceRouter(prices, m), m, DefaultLimits())
}

func TestCalculate_BTCInputToday(t *testing.T) {
	prices := &fakePrices{current: 100_000, historical: map[models.YearMonth]float64{ym(2020, 1): 7_200}}
	uc := newValuation(t, prices)

	v, err := uc.Calculate(context.Background(), models.ValuationRequest{
		InputType:      models.InputBTC,
		BTCAmount:      0.5,
		PurchaseYear:   2020,
		PurchaseMonth:  1,
		ComparisonType: models.CompareToday,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.5, v.BTCAmount)
	assert.Equal(t, 7_200.0, v.PurchasePrice)
	assert.Equal(t, 3_600.0, v.PurchaseValue)
	assert.Equal(t, 100_000.0, v.ComparisonPrice)
	assert.Equal(t, 50_000.0, v.CurrentValue)
	assert.Equal(t, 46_400.0, v.ProfitLoss)
	assert.Equal(t, 1288.89, v.ProfitLossPct)
	assert.Equal(t, ym(2025, 6), v.ComparisonDate)
	assert.False(t, v.IsProjection)
	assert.Empty(t, v.ProjectionInfo)
}

func TestCalculate_USDInputDerivesBTC(t *testing.T) {
	prices := &fakePrices{current: 100_000, historical: map[models.YearMonth]float64{ym(2024, 6): 60_000}}
	uc := newValuation(t, prices)

	v, err := uc.Calculate(context.Background(), models.ValuationRequest{
		InputType:      models.InputUSD,
		USDAmount:      1_000,
		PurchaseYear:   2024,
		PurchaseMonth:  6,
		ComparisonType: models.CompareToday,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.01666667, v.BTCAmount)
	assert.Equal(t, 1_000.0, v.PurchaseValue)
	assert.Equal(t, 1_666.67, v.CurrentValue)
	assert.Equal(t, 666.67, v.ProfitLoss)
	assert.Equal(t, 66.67, v.ProfitLossPct)
}

func TestCalculate_LossIsNegative(t *testing.T) {
	prices := &fakePrices{current: 50_000, historical: map[models.YearMonth]float64{ym(2021, 11): 65_000}}
	uc := newValuation(t, prices)

	v, err := uc.Calculate(context.Background(), models.ValuationRequest{
		InputType:     models.InputBTC,
		BTCAmount:     2,
		PurchaseYear:  2021,
		PurchaseMonth: 11,
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, -30_000.0, v.ProfitLoss)
	assert.Equal(t, -23.08, v.ProfitLossPct)
}

func TestCalculate_FutureComparisonIsProjection(t *testing.T) {
	prices := &fakePrices{current: 100_000, historical: map[models.YearMonth]float64{ym(2020, 1): 7_200}}
	uc := newValuation(t, prices)

	v, err := uc.Calculate(context.Background(), models.ValuationRequest{
		InputType:      models.InputBTC,
		BTCAmount:      1,
		PurchaseYear:   2020,
		PurchaseMonth:  1,
		ComparisonType: models.CompareFuture,
		FutureYear:     2030,
		FutureMonth:    1,
	}, testNow)
	require.NoError(t, err)

	want := math.Round(800_000*forecast.VolatilityFactor(2030, 1)*100) / 100
	assert.True(t, v.IsProjection)
	assert.InDelta(t, want, v.ComparisonPrice, 0.011)
	assert.Equal(t, ym(2030, 1), v.ComparisonDate)
	assert.Contains(t, v.ProjectionInfo, "2030: $800,000.00")
	assert.Contains(t, v.ModelDetails, "not financial advice")
}

func TestCalculate_RejectsBadRequests(t *testing.T) {
	prices := &fakePrices{current: 100_000, historical: map[models.YearMonth]float64{ym(2020, 1): 7_200}}
	uc := newValuation(t, prices)

	cases := map[string]models.ValuationRequest{
		"purchase in future": {InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2026, PurchaseMonth: 1},
		"purchase too early": {InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2009, PurchaseMonth: 1},
		"bad month":          {InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2020, PurchaseMonth: 13},
		"btc below minimum":  {InputType: models.InputBTC, BTCAmount: 0.00001, PurchaseYear: 2020, PurchaseMonth: 1},
		"usd below minimum":  {InputType: models.InputUSD, USDAmount: 0.5, PurchaseYear: 2020, PurchaseMonth: 1},
		"future not after now": {
			InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2020, PurchaseMonth: 1,
			ComparisonType: models.CompareFuture, FutureYear: 2025, FutureMonth: 6,
		},
		"future beyond max year": {
			InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2020, PurchaseMonth: 1,
			ComparisonType: models.CompareFuture, FutureYear: 2051, FutureMonth: 1,
		},
		"unknown input type": {InputType: "eth", BTCAmount: 1, PurchaseYear: 2020, PurchaseMonth: 1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Calculate(context.Background(), req, testNow)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestCalculate_PurchasePriceUnavailable(t *testing.T) {
	prices := &fakePrices{current: 100_000}
	uc := newValuation(t, prices)

	_, err := uc.Calculate(context.Background(), models.ValuationRequest{
		InputType: models.InputBTC, BTCAmount: 1, PurchaseYear: 2015, PurchaseMonth: 5,
	}, testNow)
	assert.ErrorIs(t, err, errNoHistory)
}
