package models

// Anchor is a long-horizon price expectation for a given year.
type Anchor struct {
	Year  int     `json:"year" yaml:"year"`
	Price float64 `json:"price" yaml:"price"`
}

// Projection carries every stage of a projected price so callers can show
// how the final number was reached.
type Projection struct {
	Target       YearMonth `json:"target"`
	CurrentPrice float64   `json:"current_price"`
	CurrentYear  int       `json:"current_year"`
	// YearPrice is the anchor interpolation for January of the target year.
	YearPrice float64 `json:"year_price"`
	// BasePrice is the month-refined price, never above the safety cap.
	BasePrice        float64 `json:"base_price"`
	VolatilityFactor float64 `json:"volatility_factor"`
	// Price is BasePrice after the volatility overlay and may exceed the cap.
	Price  float64 `json:"price"`
	Capped bool    `json:"capped"`
}

// ModelInfo describes the projection model for display.
type ModelInfo struct {
	ModelType               string   `json:"model_type"`
	Anchors                 []Anchor `json:"anchors"`
	MaxCap                  float64  `json:"max_cap"`
	GrowthRateToFirstAnchor float64  `json:"growth_rate_to_first_anchor"`
	GrowthRatePct           float64  `json:"growth_rate_pct"`
	YearsToFirstAnchor      float64  `json:"years_to_first_anchor"`
	Description             string   `json:"description"`
}
