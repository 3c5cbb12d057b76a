package usecase

import (
	"context"
	"fmt"
	"time"

	"HodlCalc/internal/domain/models"
	drepo "HodlCalc/internal/domain/repository"
	dsvc "HodlCalc/internal/domain/service"
)

// PriceRouter picks the right price for a month: observed for the past,
// live for the current month and projected for the future.
type PriceRouter struct {
	prices    drepo.PriceRepository
	projector dsvc.Projector
}

func NewPriceRouter(prices drepo.PriceRepository, projector dsvc.Projector) *PriceRouter {
	return &PriceRouter{prices: prices, projector: projector}
}

// PriceFor returns the price for ym as seen at now.
func (r *PriceRouter) PriceFor(ctx context.Context, ym models.YearMonth, now time.Time) (models.PriceQuote, error) {
	current := models.YearMonthOf(now)
	switch {
	case ym.Before(current):
		return r.prices.Historical(ctx, ym)
	case ym == current:
		return r.prices.Current(ctx)
	}

	p, err := r.Projection(ctx, ym, now, 0)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return models.PriceQuote{
		YearMonth: ym,
		Price:     p.Price,
		Source:    models.SourceProjection,
		Projected: true,
		FetchedAt: now,
	}, nil
}

// Projection runs the projection model for ym, which must lie after the
// current month. A positive reference price replaces the live current price.
func (r *PriceRouter) Projection(ctx context.Context, ym models.YearMonth, now time.Time, reference float64) (models.Projection, error) {
	if current := models.YearMonthOf(now); !ym.After(current) {
		return models.Projection{}, fmt.Errorf("%w: projection month %s is not after %s", ErrInvalidRequest, ym, current)
	}
	if reference <= 0 {
		q, err := r.prices.Current(ctx)
		if err != nil {
			return models.Projection{}, fmt.Errorf("reference price: %w", err)
		}
		reference = q.Price
	}
	p, err := r.projector.Project(reference, now.UTC().Year(), ym)
	if err != nil {
		return models.Projection{}, fmt.Errorf("project %s: %w", ym, err)
	}
	return p, nil
}

// Current returns the live price.
func (r *PriceRouter) Current(ctx context.Context) (models.PriceQuote, error) {
	return r.prices.Current(ctx)
}
