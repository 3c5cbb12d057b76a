package usecase

import (
	"context"
	"fmt"
	"time"

	"HodlCalc/internal/domain/models"
	drepo "HodlCalc/internal/domain/repository"
	dsvc "HodlCalc/internal/domain/service"
)

// ModelInfoUseCase describes the projection model against the live price.
type ModelInfoUseCase struct {
	prices    drepo.PriceRepository
	projector dsvc.Projector
}

func NewModelInfoUseCase(prices drepo.PriceRepository, projector dsvc.Projector) *ModelInfoUseCase {
	return &ModelInfoUseCase{prices: prices, projector: projector}
}

func (uc *ModelInfoUseCase) Info(ctx context.Context, now time.Time) (models.ModelInfo, error) {
	q, err := uc.prices.Current(ctx)
	if err != nil {
		return models.ModelInfo{}, fmt.Errorf("reference price: %w", err)
	}
	return uc.projector.Info(q.Price, now)
}
