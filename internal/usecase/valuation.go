package usecase

import (
	"context"
	"fmt"
	"time"

	"HodlCalc/internal/domain/models"
	dsvc "HodlCalc/internal/domain/service"

	"github.com/shopspring/decimal"
)

const (
	usdPlaces = 2
	btcPlaces = 8
	pctPlaces = 2
)

// ValuationUseCase computes profit and loss of a BTC holding between a
// purchase month and either today or a projected future month.
type ValuationUseCase struct {
	router    *PriceRouter
	projector dsvc.Projector
	limits    Limits
}

func NewValuationUseCase(router *PriceRouter, projector dsvc.Projector, limits Limits) *ValuationUseCase {
	return &ValuationUseCase{router: router, projector: projector, limits: limits}
}

func (uc *ValuationUseCase) Calculate(ctx context.Context, req models.ValuationRequest, now time.Time) (*models.Valuation, error) {
	current := models.YearMonthOf(now)
	purchase := models.YearMonth{Year: req.PurchaseYear, Month: req.PurchaseMonth}
	if err := uc.limits.checkMonth("purchase", purchase); err != nil {
		return nil, err
	}
	if purchase.After(current) {
		return nil, fmt.Errorf("%w: purchase date %s is in the future", ErrInvalidRequest, purchase)
	}

	var comparison models.YearMonth
	switch req.ComparisonType {
	case models.CompareToday, "":
		comparison = current
	case models.CompareFuture:
		comparison = models.YearMonth{Year: req.FutureYear, Month: req.FutureMonth}
		if err := uc.limits.checkMonth("future", comparison); err != nil {
			return nil, err
		}
		if !comparison.After(current) {
			return nil, fmt.Errorf("%w: future date %s must be after %s", ErrInvalidRequest, comparison, current)
		}
	default:
		return nil, fmt.Errorf("%w: unknown comparison type %q", ErrInvalidRequest, req.ComparisonType)
	}

	inputType := req.InputType
	if inputType == "" {
		inputType = models.InputBTC
	}
	switch inputType {
	case models.InputBTC:
		if err := uc.limits.checkBTC(req.BTCAmount); err != nil {
			return nil, err
		}
	case models.InputUSD:
		if err := uc.limits.checkUSD(req.USDAmount); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown input type %q", ErrInvalidRequest, req.InputType)
	}

	purchaseQuote, err := uc.router.PriceFor(ctx, purchase, now)
	if err != nil {
		return nil, fmt.Errorf("purchase price: %w", err)
	}

	var comparisonQuote models.PriceQuote
	if comparison == current {
		comparisonQuote, err = uc.router.Current(ctx)
	} else {
		comparisonQuote, err = uc.router.PriceFor(ctx, comparison, now)
	}
	if err != nil {
		return nil, fmt.Errorf("comparison price: %w", err)
	}

	purchasePrice := decimal.NewFromFloat(purchaseQuote.Price)
	comparisonPrice := decimal.NewFromFloat(comparisonQuote.Price)

	var btc, purchaseValue decimal.Decimal
	if inputType == models.InputUSD {
		purchaseValue = decimal.NewFromFloat(req.USDAmount)
		btc = purchaseValue.Div(purchasePrice)
	} else {
		btc = decimal.NewFromFloat(req.BTCAmount)
		purchaseValue = btc.Mul(purchasePrice)
	}

	currentValue := btc.Mul(comparisonPrice)
	profitLoss := currentValue.Sub(purchaseValue)
	profitLossPct := decimal.Zero
	if purchaseValue.IsPositive() {
		profitLossPct = profitLoss.Div(purchaseValue).Mul(decimal.NewFromInt(100))
	}

	v := &models.Valuation{
		InputType:       inputType,
		BTCAmount:       btc.Round(btcPlaces).InexactFloat64(),
		PurchaseDate:    purchase,
		PurchasePrice:   purchasePrice.Round(usdPlaces).InexactFloat64(),
		PurchaseValue:   purchaseValue.Round(usdPlaces).InexactFloat64(),
		ComparisonDate:  comparison,
		ComparisonPrice: comparisonPrice.Round(usdPlaces).InexactFloat64(),
		CurrentValue:    currentValue.Round(usdPlaces).InexactFloat64(),
		ProfitLoss:      profitLoss.Round(usdPlaces).InexactFloat64(),
		ProfitLossPct:   profitLossPct.Round(pctPlaces).InexactFloat64(),
		IsProjection:    comparisonQuote.Projected,
	}
	if v.IsProjection {
		v.ProjectionInfo = uc.projector.Summary()
		v.ModelDetails = uc.projector.Describe()
	}
	return v, nil
}
