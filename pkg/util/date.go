package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthIndex flattens a (year, month) pair into a month count, so that
// consecutive calendar months differ by exactly one.
func MonthIndex(year, month int) int {
	return year*12 + (month - 1)
}

// FromMonthIndex is the inverse of MonthIndex.
func FromMonthIndex(idx int) (year, month int) {
	year = idx / 12
	month = idx%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	return year, month
}

// AddMonths shifts a (year, month) pair by n months, rolling the year as needed.
func AddMonths(year, month, n int) (int, int) {
	return FromMonthIndex(MonthIndex(year, month) + n)
}

// MonthsBetween returns the number of months from (y1, m1) to (y2, m2).
// Negative when the second month precedes the first.
func MonthsBetween(y1, m1, y2, m2 int) int {
	return MonthIndex(y2, m2) - MonthIndex(y1, m1)
}

// FirstOfMonth returns midnight UTC on the first day of the month.
func FirstOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// YearsUntil returns the number of whole days between from and to, floored,
// divided by 365.25. Negative when to precedes from.
func YearsUntil(from, to time.Time) float64 {
	const day = 24 * time.Hour
	d := to.Sub(from)
	days := d / day
	if d%day < 0 {
		days--
	}
	return float64(days) / 365.25
}

// ParseYearMonth accepts "YYYY-MM" or "YYYY/MM" and returns the pair.
func ParseYearMonth(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid year-month %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in %q", s)
	}
	return year, month, nil
}
