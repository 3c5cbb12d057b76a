package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordPriceLookup("cache", "hit")
	r.RecordPriceLookup("cache", "hit")
	r.RecordPriceLookup("api", "error")
	r.RecordError("coingecko")
	r.RecordLastPrice("coingecko", 67000)
	r.RecordLatency("price_current", 0.12)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.priceLookups.WithLabelValues("cache", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.priceLookups.WithLabelValues("api", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("coingecko")))
	assert.Equal(t, 67000.0, testutil.ToFloat64(r.lastPrice.WithLabelValues("coingecko")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
