package forecast

import (
	"fmt"
	"math"
	"sort"

	"HodlCalc/internal/domain/models"
)

// AnchorTable is an immutable, year-ordered list of anchor points.
type AnchorTable struct {
	points []models.Anchor
}

// NewAnchorTable validates and sorts anchors. At least two anchors with
// distinct years and positive finite prices are required.
func NewAnchorTable(anchors []models.Anchor) (AnchorTable, error) {
	if len(anchors) < 2 {
		return AnchorTable{}, fmt.Errorf("%w: need at least 2 anchors, got %d", ErrInvalidConfiguration, len(anchors))
	}
	points := make([]models.Anchor, len(anchors))
	copy(points, anchors)
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	for i, a := range points {
		if !(a.Price > 0) || math.IsInf(a.Price, 0) {
			return AnchorTable{}, fmt.Errorf("%w: anchor %d has non-positive price %v", ErrInvalidConfiguration, a.Year, a.Price)
		}
		if i > 0 && points[i-1].Year == a.Year {
			return AnchorTable{}, fmt.Errorf("%w: duplicate anchor year %d", ErrInvalidConfiguration, a.Year)
		}
	}
	return AnchorTable{points: points}, nil
}

// AnchorTableFromMap builds a table from a year->price mapping.
func AnchorTableFromMap(m map[int]float64) (AnchorTable, error) {
	anchors := make([]models.Anchor, 0, len(m))
	for y, p := range m {
		anchors = append(anchors, models.Anchor{Year: y, Price: p})
	}
	return NewAnchorTable(anchors)
}

// Len returns the number of anchors.
func (t AnchorTable) Len() int { return len(t.points) }

// First returns the earliest anchor.
func (t AnchorTable) First() models.Anchor { return t.points[0] }

// Last returns the latest anchor.
func (t AnchorTable) Last() models.Anchor { return t.points[len(t.points)-1] }

// Anchors returns a copy of the anchors in year order.
func (t AnchorTable) Anchors() []models.Anchor {
	out := make([]models.Anchor, len(t.points))
	copy(out, t.points)
	return out
}

// Lookup returns the price anchored at year, if any.
func (t AnchorTable) Lookup(year int) (float64, bool) {
	i := sort.Search(len(t.points), func(i int) bool { return t.points[i].Year >= year })
	if i < len(t.points) && t.points[i].Year == year {
		return t.points[i].Price, true
	}
	return 0, false
}

// bracket returns the adjacent anchors with lo.Year < year < hi.Year.
// The caller guarantees year lies strictly inside the table's span and is not an anchor.
func (t AnchorTable) bracket(year int) (lo, hi models.Anchor) {
	i := sort.Search(len(t.points), func(i int) bool { return t.points[i].Year > year })
	return t.points[i-1], t.points[i]
}
