package history

import (
	"testing"

	"HodlCalc/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ExactHit(t *testing.T) {
	tbl := Default()

	p, ok := tbl.Lookup(ym(2017, 12))
	require.True(t, ok)
	assert.Equal(t, 14000.0, p)
}

func TestLookup_NearestWithinThreeMonths(t *testing.T) {
	tbl := Default()

	// 2014-03 is two months from 2014-01 and three from 2014-06.
	p, ok := tbl.Lookup(ym(2014, 3))
	require.True(t, ok)
	assert.Equal(t, 800.0, p)

	// 2019-02 sits between 2019-01 and 2019-03; the earlier entry wins.
	p, ok = tbl.Lookup(ym(2019, 2))
	require.True(t, ok)
	assert.Equal(t, 3600.0, p)

	// Three months past the last entry is still accepted.
	p, ok = tbl.Lookup(ym(2026, 1))
	require.True(t, ok)
	assert.Equal(t, 150000.0, p)
}

func TestLookup_TooFarAway(t *testing.T) {
	tbl := Default()

	for _, m := range []models.YearMonth{ym(2009, 1), ym(2026, 2), ym(2040, 6)} {
		_, ok := tbl.Lookup(m)
		assert.False(t, ok, m.String())
	}
}

func TestLookup_EmptyTable(t *testing.T) {
	tbl := NewTable(nil)

	_, ok := tbl.Lookup(ym(2020, 1))
	assert.False(t, ok)

	_, _, ok = tbl.Range()
	assert.False(t, ok)
}

func TestNewTable_SkipsInvalidEntries(t *testing.T) {
	tbl := NewTable(map[models.YearMonth]float64{
		ym(2020, 1):  10,
		ym(2020, 13): 20,
		ym(2020, 2):  0,
	})
	assert.Equal(t, 1, tbl.Len())
}

func TestRange(t *testing.T) {
	earliest, latest, ok := Default().Range()
	require.True(t, ok)
	assert.Equal(t, ym(2010, 7), earliest)
	assert.Equal(t, ym(2025, 10), latest)
}
