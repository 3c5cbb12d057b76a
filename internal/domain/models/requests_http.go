package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type PriceRequest struct {
	Year  int `query:"year" json:"year" validate:"required,gte=2009,lte=2200"`
	Month int `query:"month" json:"month" default:"1" validate:"gte=1,lte=12"`
}

type ProjectionRequest struct {
	Year  int `query:"year" json:"year" validate:"required,gte=2009,lte=2200"`
	Month int `query:"month" json:"month" default:"1" validate:"gte=1,lte=12"`
	// Price overrides the live reference price when set.
	Price float64 `query:"price" json:"price" validate:"gte=0"`
}

type ValuationRequest struct {
	InputType      string  `json:"input_type" default:"btc" validate:"oneof=btc usd"`
	BTCAmount      float64 `json:"btc_amount" validate:"required_if=InputType btc,gte=0"`
	USDAmount      float64 `json:"usd_amount" validate:"required_if=InputType usd,gte=0"`
	PurchaseYear   int     `json:"purchase_year" validate:"required"`
	PurchaseMonth  int     `json:"purchase_month" validate:"gte=1,lte=12"`
	ComparisonType string  `json:"comparison_type" default:"today" validate:"oneof=today future"`
	FutureYear     int     `json:"future_year" validate:"required_if=ComparisonType future"`
	FutureMonth    int     `json:"future_month" default:"1" validate:"gte=1,lte=12"`
}

type ChartRequest struct {
	FromYear  int     `query:"from_year" json:"from_year" validate:"required"`
	FromMonth int     `query:"from_month" json:"from_month" default:"1" validate:"gte=1,lte=12"`
	ToYear    int     `query:"to_year" json:"to_year" validate:"required"`
	ToMonth   int     `query:"to_month" json:"to_month" default:"1" validate:"gte=1,lte=12"`
	BTC       float64 `query:"btc" json:"btc" default:"1" validate:"gt=0"`
}
