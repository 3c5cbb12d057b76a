package forecast

import (
	"fmt"
	"strings"
	"time"

	"HodlCalc/internal/domain/models"
	"HodlCalc/pkg/util"
)

const modelType = "multi-anchor log interpolation"

// Info summarises the model relative to currentPrice at now: the growth rate
// needed to reach the first anchor and the time left until it.
func (m *Model) Info(currentPrice float64, now time.Time) (models.ModelInfo, error) {
	if err := checkPrice(currentPrice); err != nil {
		return models.ModelInfo{}, err
	}
	first := m.anchors.First()
	years := util.YearsUntil(now, util.FirstOfMonth(first.Year, 1))

	rateYears := years
	if rateYears <= 0 {
		rateYears = 1
	}
	rate := GrowthRate(currentPrice, first.Price, rateYears)
	if years < 0 {
		years = 0
	}

	return models.ModelInfo{
		ModelType:               modelType,
		Anchors:                 m.anchors.Anchors(),
		MaxCap:                  m.cap,
		GrowthRateToFirstAnchor: rate,
		GrowthRatePct:           rate * 100,
		YearsToFirstAnchor:      years,
		Description:             m.Describe(),
	}, nil
}

// Summary is a one-line description of the anchors, e.g.
// "Multi-anchor interpolation model (Targets: 2030: $800,000.00, ...)".
func (m *Model) Summary() string {
	parts := make([]string, 0, m.anchors.Len())
	for _, a := range m.anchors.points {
		parts = append(parts, fmt.Sprintf("%d: %s", a.Year, util.FormatUSD(a.Price)))
	}
	return "Multi-anchor interpolation model (Targets: " + strings.Join(parts, ", ") + ")"
}

// Describe explains how projections are produced.
func (m *Model) Describe() string {
	var b strings.Builder
	b.WriteString("Projections interpolate between long-horizon anchor prices:\n")
	for _, a := range m.anchors.points {
		fmt.Fprintf(&b, "  - %d: %s\n", a.Year, util.FormatUSD(a.Price))
	}
	first, last := m.anchors.First(), m.anchors.Last()
	fmt.Fprintf(&b, "Before %d the price grows at the constant rate that reaches the first anchor.\n", first.Year)
	b.WriteString("Between anchors the price is interpolated log-linearly, then refined by month.\n")
	fmt.Fprintf(&b, "After %d growth continues at the rate of the last anchor segment.\n", last.Year)
	fmt.Fprintf(&b, "Prices are capped at %s before a deterministic monthly volatility factor (x%.1f to x%.1f) is applied.\n",
		util.FormatUSD(m.cap), VolatilityMin, VolatilityMax)
	b.WriteString("Projections are illustrative only and are not financial advice.")
	return b.String()
}
