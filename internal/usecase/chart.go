package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"HodlCalc/internal/domain/models"
	applogger "HodlCalc/pkg/logger"
	"HodlCalc/pkg/util"
)

const chartTitle = "Bitcoin Price & Portfolio Value Over Time"

// ChartParams selects the months and holding shown on the chart.
type ChartParams struct {
	From models.YearMonth
	To   models.YearMonth
	BTC  float64
}

// ChartUseCase builds the price and portfolio value series.
type ChartUseCase struct {
	router *PriceRouter
	limits Limits
	log    *applogger.Logger
}

func NewChartUseCase(router *PriceRouter, limits Limits, l *applogger.Logger) *ChartUseCase {
	return &ChartUseCase{router: router, limits: limits, log: l}
}

// Series samples every month from From to To, or every QuarterlyStep months
// when the span exceeds MaxMonthlyPoints. A month whose price cannot be
// resolved is plotted at zero.
func (uc *ChartUseCase) Series(ctx context.Context, p ChartParams, now time.Time) (*models.ChartSeries, error) {
	if err := uc.limits.checkMonth("from", p.From); err != nil {
		return nil, err
	}
	if err := uc.limits.checkMonth("to", p.To); err != nil {
		return nil, err
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRequest, p.From, p.To)
	}
	if err := uc.limits.checkBTC(p.BTC); err != nil {
		return nil, err
	}

	total := util.MonthsBetween(p.From.Year, p.From.Month, p.To.Year, p.To.Month) + 1
	step := 1
	if total > uc.limits.MaxMonthlyPoints && uc.limits.QuarterlyStep > 1 {
		step = uc.limits.QuarterlyStep
	}

	months := make([]models.YearMonth, 0, total/step+1)
	for ym := p.From; !ym.After(p.To); ym = ym.AddMonths(step) {
		months = append(months, ym)
	}

	points := uc.resolve(ctx, months, p.BTC, now)

	series := &models.ChartSeries{
		Title:      chartTitle,
		BTCAmount:  p.BTC,
		StepMonths: step,
		Points:     points,
		Stats:      chartStats(points),
	}
	for _, pt := range points {
		if pt.Projected {
			series.HasProjections = true
			series.Title = chartTitle + " (includes projections)"
			break
		}
	}
	return series, nil
}

func (uc *ChartUseCase) resolve(ctx context.Context, months []models.YearMonth, btc float64, now time.Time) []models.ChartPoint {
	points := make([]models.ChartPoint, len(months))

	workers := uc.limits.ChartConcurrency
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, ym := range months {
		wg.Add(1)
		go func(i int, ym models.YearMonth) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pt := models.ChartPoint{Date: ym.Time()}
			q, err := uc.router.PriceFor(ctx, ym, now)
			if err != nil {
				uc.log.Warn("chart price unavailable",
					applogger.String("month", ym.String()),
					applogger.Error(err),
				)
				points[i] = pt
				return
			}
			pt.Price = q.Price
			pt.PortfolioValue = q.Price * btc
			pt.Projected = q.Projected
			points[i] = pt
		}(i, ym)
	}
	wg.Wait()
	return points
}

func chartStats(points []models.ChartPoint) models.ChartStats {
	s := models.ChartStats{NumPoints: len(points)}
	if len(points) == 0 {
		return s
	}
	s.MinPrice, s.MinPortfolio = math.Inf(1), math.Inf(1)
	s.MaxPrice, s.MaxPortfolio = math.Inf(-1), math.Inf(-1)

	var sumPrice, sumPortfolio float64
	for _, p := range points {
		s.MinPrice = math.Min(s.MinPrice, p.Price)
		s.MaxPrice = math.Max(s.MaxPrice, p.Price)
		s.MinPortfolio = math.Min(s.MinPortfolio, p.PortfolioValue)
		s.MaxPortfolio = math.Max(s.MaxPortfolio, p.PortfolioValue)
		sumPrice += p.Price
		sumPortfolio += p.PortfolioValue
	}
	n := float64(len(points))
	s.AvgPrice = sumPrice / n
	s.AvgPortfolio = sumPortfolio / n
	return s
}
