package models

import "time"

// Input types accepted by a valuation request.
const (
	InputBTC = "btc"
	InputUSD = "usd"
)

// Comparison targets accepted by a valuation request.
const (
	CompareToday  = "today"
	CompareFuture = "future"
)

// Valuation is the profit/loss picture of a holding between two months.
type Valuation struct {
	InputType       string    `json:"input_type"`
	BTCAmount       float64   `json:"btc_amount"`
	PurchaseDate    YearMonth `json:"purchase_date"`
	PurchasePrice   float64   `json:"purchase_price"`
	PurchaseValue   float64   `json:"purchase_value"`
	ComparisonDate  YearMonth `json:"comparison_date"`
	ComparisonPrice float64   `json:"comparison_price"`
	CurrentValue    float64   `json:"current_value"`
	ProfitLoss      float64   `json:"profit_loss"`
	ProfitLossPct   float64   `json:"profit_loss_pct"`
	IsProjection    bool      `json:"is_projection"`
	ProjectionInfo  string    `json:"projection_info,omitempty"`
	ModelDetails    string    `json:"model_details,omitempty"`
}

// ChartPoint is one sample of the price history chart.
type ChartPoint struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	PortfolioValue float64   `json:"portfolio_value"`
	Projected      bool      `json:"projected"`
}

// ChartStats summarises a chart series.
type ChartStats struct {
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	AvgPrice     float64 `json:"avg_price"`
	MinPortfolio float64 `json:"min_portfolio"`
	MaxPortfolio float64 `json:"max_portfolio"`
	AvgPortfolio float64 `json:"avg_portfolio"`
	NumPoints    int     `json:"num_data_points"`
}

// ChartSeries is the data behind the price & portfolio chart.
type ChartSeries struct {
	Title          string       `json:"title"`
	BTCAmount      float64      `json:"btc_amount"`
	StepMonths     int          `json:"step_months"`
	HasProjections bool         `json:"has_projections"`
	Points         []ChartPoint `json:"points"`
	Stats          ChartStats   `json:"stats"`
}
