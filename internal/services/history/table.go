// Package history holds an approximate monthly BTC/USD price table used when
// the market data API cannot serve a historical month.
package history

import (
	"sort"

	"HodlCalc/internal/domain/models"
)

// MaxDistanceMonths is how far a lookup may drift from the requested month.
const MaxDistanceMonths = 3

// entry is one approximate monthly average.
type entry struct {
	ym    models.YearMonth
	price float64
}

// Table is a read-only, month-ordered price table.
type Table struct {
	entries []entry
}

// NewTable builds a table from month->price pairs.
func NewTable(prices map[models.YearMonth]float64) *Table {
	entries := make([]entry, 0, len(prices))
	for ym, p := range prices {
		if !ym.Valid() || !(p > 0) {
			continue
		}
		entries = append(entries, entry{ym: ym, price: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ym.Before(entries[j].ym) })
	return &Table{entries: entries}
}

// Default returns the built-in table covering July 2010 to October 2025.
func Default() *Table { return NewTable(defaultPrices) }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the price for ym. An exact entry wins; otherwise the nearest
// entry within MaxDistanceMonths is used, the earlier one on a tie.
func (t *Table) Lookup(ym models.YearMonth) (float64, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}
	target := ym.Index()
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].ym.Index() >= target })
	if i < len(t.entries) && t.entries[i].ym.Index() == target {
		return t.entries[i].price, true
	}

	best, bestDist := -1, MaxDistanceMonths+1
	if i > 0 {
		best, bestDist = i-1, target-t.entries[i-1].ym.Index()
	}
	if i < len(t.entries) {
		if d := t.entries[i].ym.Index() - target; d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > MaxDistanceMonths {
		return 0, false
	}
	return t.entries[best].price, true
}

// Range returns the earliest and latest months in the table.
func (t *Table) Range() (earliest, latest models.YearMonth, ok bool) {
	if len(t.entries) == 0 {
		return models.YearMonth{}, models.YearMonth{}, false
	}
	return t.entries[0].ym, t.entries[len(t.entries)-1].ym, true
}

func ym(year, month int) models.YearMonth { return models.YearMonth{Year: year, Month: month} }

// Approximate monthly averages.
var defaultPrices = map[models.YearMonth]float64{
	ym(2010, 7): 0.08, ym(2010, 11): 0.25,
	ym(2011, 1): 0.30, ym(2011, 6): 15.00, ym(2011, 12): 4.00,
	ym(2012, 1): 5.00, ym(2012, 6): 6.50, ym(2012, 12): 13.00,
	ym(2013, 1): 13.50, ym(2013, 4): 120.00, ym(2013, 6): 100.00, ym(2013, 11): 900.00, ym(2013, 12): 750.00,

	ym(2014, 1): 800.00, ym(2014, 6): 600.00, ym(2014, 12): 320.00,
	ym(2015, 1): 280.00, ym(2015, 6): 250.00, ym(2015, 12): 430.00,
	ym(2016, 1): 430.00, ym(2016, 6): 650.00, ym(2016, 12): 900.00,

	ym(2017, 1): 1000.00, ym(2017, 3): 1200.00, ym(2017, 6): 2500.00, ym(2017, 9): 4000.00, ym(2017, 12): 14000.00,
	ym(2018, 1): 11000.00, ym(2018, 6): 6500.00, ym(2018, 12): 3800.00,

	ym(2019, 1): 3600.00, ym(2019, 3): 4000.00, ym(2019, 6): 10000.00, ym(2019, 9): 8500.00, ym(2019, 12): 7200.00,

	// COVID crash, then the 2020 run.
	ym(2020, 1): 7200.00, ym(2020, 3): 6400.00, ym(2020, 6): 9300.00, ym(2020, 9): 10800.00, ym(2020, 12): 19000.00,
	ym(2021, 1): 32000.00, ym(2021, 3): 55000.00, ym(2021, 6): 35000.00, ym(2021, 9): 43000.00,
	ym(2021, 11): 65000.00, ym(2021, 12): 50000.00,

	ym(2022, 1): 38000.00, ym(2022, 3): 42000.00, ym(2022, 6): 20000.00, ym(2022, 9): 19000.00, ym(2022, 12): 16500.00,
	ym(2023, 1): 17000.00, ym(2023, 3): 23000.00, ym(2023, 6): 27000.00, ym(2023, 9): 26000.00, ym(2023, 12): 42000.00,

	ym(2024, 1): 43000.00, ym(2024, 3): 67000.00, ym(2024, 6): 61000.00, ym(2024, 9): 63000.00,
	ym(2024, 10): 67000.00, ym(2024, 11): 72000.00, ym(2024, 12): 95000.00,

	ym(2025, 1): 105000.00, ym(2025, 2): 98000.00, ym(2025, 3): 115000.00, ym(2025, 4): 120000.00,
	ym(2025, 5): 125000.00, ym(2025, 6): 130000.00, ym(2025, 7): 135000.00, ym(2025, 8): 140000.00,
	ym(2025, 9): 145000.00, ym(2025, 10): 150000.00,
}
