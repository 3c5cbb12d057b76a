package models

import (
	"fmt"
	"time"

	"HodlCalc/pkg/util"
)

// Price sources reported on a PriceQuote.
const (
	SourceCoinGecko  = "coingecko"
	SourceFallback   = "fallback"
	SourceProjection = "projection"
	SourceCache      = "cache"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// YearMonthOf returns the calendar month containing t (UTC).
func YearMonthOf(t time.Time) YearMonth {
	t = t.UTC()
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

func (ym YearMonth) Index() int { return util.MonthIndex(ym.Year, ym.Month) }

func (ym YearMonth) Before(o YearMonth) bool { return ym.Index() < o.Index() }

func (ym YearMonth) After(o YearMonth) bool { return ym.Index() > o.Index() }

// AddMonths returns the month n months later (earlier if n is negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	y, m := util.AddMonths(ym.Year, ym.Month, n)
	return YearMonth{Year: y, Month: m}
}

// Valid reports whether the month component is in 1..12.
func (ym YearMonth) Valid() bool { return ym.Month >= 1 && ym.Month <= 12 }

// Time returns the first instant of the month in UTC.
func (ym YearMonth) Time() time.Time { return util.FirstOfMonth(ym.Year, ym.Month) }

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month) }

// Label renders the month as "Jan 2024".
func (ym YearMonth) Label() string { return ym.Time().Format("Jan 2006") }

// PriceQuote is a BTC/USD price for one month, historical or projected.
type PriceQuote struct {
	YearMonth
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	Projected bool      `json:"projected"`
	FetchedAt time.Time `json:"fetched_at"`
}
