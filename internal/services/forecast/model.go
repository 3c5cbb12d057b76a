// Package forecast projects a future BTC price from a present reference price
// using ordered anchor points, a month-level refinement and a deterministic
// volatility overlay.
//
// A Model is immutable once built and safe for concurrent use.
package forecast

import (
	"fmt"
	"math"

	"HodlCalc/internal/domain/models"
)

// Model holds the anchor table and safety cap used for every projection.
type Model struct {
	anchors AnchorTable
	cap     float64
}

// NewModel returns a Model over anchors, never projecting above maxPrice
// before the volatility overlay.
func NewModel(anchors AnchorTable, maxPrice float64) (*Model, error) {
	if anchors.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 anchors, got %d", ErrInvalidConfiguration, anchors.Len())
	}
	if !(maxPrice > 0) || math.IsInf(maxPrice, 0) {
		return nil, fmt.Errorf("%w: safety cap must be positive, got %v", ErrInvalidConfiguration, maxPrice)
	}
	return &Model{anchors: anchors, cap: maxPrice}, nil
}

// Anchors returns the model's anchor table.
func (m *Model) Anchors() AnchorTable { return m.anchors }

// Cap returns the safety cap.
func (m *Model) Cap() float64 { return m.cap }

// GrowthRate is the continuously compounded annual rate taking from to to
// over years: ln(to/from) / years.
func GrowthRate(from, to, years float64) float64 {
	return math.Log(to/from) / years
}

// Interpolate returns the projected price for targetYear given the price in
// currentYear. Targets at or before currentYear return currentPrice unchanged;
// every other result is clamped to the safety cap.
func (m *Model) Interpolate(currentPrice float64, currentYear, targetYear int) (float64, error) {
	if err := checkPrice(currentPrice); err != nil {
		return 0, err
	}
	p, _ := m.interpolate(currentPrice, currentYear, targetYear)
	return p, nil
}

func (m *Model) interpolate(currentPrice float64, currentYear, targetYear int) (float64, bool) {
	if targetYear <= currentYear {
		return currentPrice, false
	}

	// An exact anchor year resolves to the anchor price itself: the implied
	// rate ln(anchor/current)/n applied over the same n years cancels out.
	if p, ok := m.anchors.Lookup(targetYear); ok {
		return m.clamp(p)
	}

	first, last := m.anchors.First(), m.anchors.Last()
	switch {
	case targetYear < first.Year:
		rate := GrowthRate(currentPrice, first.Price, float64(first.Year-currentYear))
		return m.clamp(currentPrice * math.Exp(rate*float64(targetYear-currentYear)))

	case targetYear > last.Year:
		// Past the final anchor, keep the slope of the last segment rather
		// than the steeper current->anchor slope.
		prev := m.anchors.points[m.anchors.Len()-2]
		rate := GrowthRate(prev.Price, last.Price, float64(last.Year-prev.Year))
		return m.clamp(last.Price * math.Exp(rate*float64(targetYear-last.Year)))

	default:
		lo, hi := m.anchors.bracket(targetYear)
		pos := float64(targetYear-lo.Year) / float64(hi.Year-lo.Year)
		return m.clamp(logLerp(lo.Price, hi.Price, pos))
	}
}

// RefineByMonth positions the projection inside targetYear by blending, in
// log space, January of targetYear with January of the following year.
func (m *Model) RefineByMonth(currentPrice float64, currentYear, targetYear, targetMonth int) (float64, error) {
	if err := checkPrice(currentPrice); err != nil {
		return 0, err
	}
	if err := checkMonth(targetMonth); err != nil {
		return 0, err
	}
	p, _, _ := m.refine(currentPrice, currentYear, targetYear, targetMonth)
	return p, nil
}

// refine returns the refined price, the January price of targetYear and
// whether the cap bound either January.
func (m *Model) refine(currentPrice float64, currentYear, targetYear, targetMonth int) (float64, float64, bool) {
	jan, capped := m.interpolate(currentPrice, currentYear, targetYear)
	if targetMonth == 1 {
		return jan, jan, capped
	}
	next, nextCapped := m.interpolate(currentPrice, currentYear, targetYear+1)
	frac := float64(targetMonth-1) / 12
	return logLerp(jan, next, frac), jan, capped || nextCapped
}

// Project runs the full pipeline for target: anchor interpolation, month
// refinement, then the volatility overlay. The overlay is applied after the
// cap, so Projection.Price may exceed Cap by up to VolatilityMax.
func (m *Model) Project(currentPrice float64, currentYear int, target models.YearMonth) (models.Projection, error) {
	if err := checkPrice(currentPrice); err != nil {
		return models.Projection{}, err
	}
	if err := checkMonth(target.Month); err != nil {
		return models.Projection{}, err
	}

	base, jan, capped := m.refine(currentPrice, currentYear, target.Year, target.Month)
	factor := VolatilityFactor(target.Year, target.Month)

	return models.Projection{
		Target:           target,
		CurrentPrice:     currentPrice,
		CurrentYear:      currentYear,
		YearPrice:        jan,
		BasePrice:        base,
		VolatilityFactor: factor,
		Price:            base * factor,
		Capped:           capped,
	}, nil
}

func (m *Model) clamp(p float64) (float64, bool) {
	if p > m.cap {
		return m.cap, true
	}
	return p, false
}

func logLerp(a, b, t float64) float64 {
	la := math.Log(a)
	return math.Exp(la + t*(math.Log(b)-la))
}

func checkPrice(p float64) error {
	if !(p > 0) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: current price must be positive, got %v", ErrInvalidInput, p)
	}
	return nil
}

func checkMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be in 1..12, got %d", ErrInvalidInput, month)
	}
	return nil
}
