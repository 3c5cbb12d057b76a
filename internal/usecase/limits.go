package usecase

import (
	"errors"
	"fmt"

	"HodlCalc/internal/domain/models"
)

// ErrInvalidRequest reports a request outside the dashboard's accepted ranges.
var ErrInvalidRequest = errors.New("invalid request")

// Limits bounds user input.
type Limits struct {
	MinYear int
	MaxYear int

	MinBTC float64
	MaxBTC float64
	MinUSD float64
	MaxUSD float64

	// Charts spanning more than MaxMonthlyPoints months are sampled every
	// QuarterlyStep months.
	MaxMonthlyPoints int
	QuarterlyStep    int
	ChartConcurrency int
}

// DefaultLimits returns the dashboard defaults.
func DefaultLimits() Limits {
	return Limits{
		MinYear:          2010,
		MaxYear:          2050,
		MinBTC:           0.0001,
		MaxBTC:           1_000_000,
		MinUSD:           1,
		MaxUSD:           10_000_000,
		MaxMonthlyPoints: 120,
		QuarterlyStep:    3,
		ChartConcurrency: 4,
	}
}

func (l Limits) checkMonth(field string, ym models.YearMonth) error {
	if !ym.Valid() {
		return fmt.Errorf("%w: %s month must be in 1..12, got %d", ErrInvalidRequest, field, ym.Month)
	}
	if ym.Year < l.MinYear || ym.Year > l.MaxYear {
		return fmt.Errorf("%w: %s year must be in %d..%d, got %d", ErrInvalidRequest, field, l.MinYear, l.MaxYear, ym.Year)
	}
	return nil
}

func (l Limits) checkBTC(v float64) error {
	if v < l.MinBTC || v > l.MaxBTC {
		return fmt.Errorf("%w: btc amount must be in %g..%g, got %g", ErrInvalidRequest, l.MinBTC, l.MaxBTC, v)
	}
	return nil
}

func (l Limits) checkUSD(v float64) error {
	if v < l.MinUSD || v > l.MaxUSD {
		return fmt.Errorf("%w: usd amount must be in %g..%g, got %g", ErrInvalidRequest, l.MinUSD, l.MaxUSD, v)
	}
	return nil
}
