package forecast

import "math"

// Bounds of VolatilityFactor.
const (
	VolatilityMin = 0.5
	VolatilityMax = 2.0
)

// VolatilityFactor returns a deterministic multiplier in [VolatilityMin,
// VolatilityMax] for the given month. It is a pure function of its inputs:
// the same month always yields the same factor, so charts are reproducible.
func VolatilityFactor(year, month int) float64 {
	seed := float64(year*100 + month)

	variation := 0.15*math.Sin(seed*0.1) +
		0.08*math.Sin(seed*0.23) +
		0.05*math.Sin(seed*0.37) +
		0.02
	factor := 1.0 + variation

	// Rare simulated crash and rally months.
	switch crash := mod(year*17+month*7, 100); {
	case crash < 3:
		factor *= 0.6
	case crash > 96:
		factor *= 1.8
	}

	return math.Max(VolatilityMin, math.Min(VolatilityMax, factor))
}

// mod is a non-negative modulus.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
