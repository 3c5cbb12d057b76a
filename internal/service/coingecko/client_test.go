package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/service/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cfg Config, limiter *ratelimit.Limiter) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	return New(cfg, limiter)
}

func TestCurrentPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":67012.5}}`))
	}, Config{APIKey: "demo-key"}, nil)

	p, err := c.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 67012.5, p)
}

func TestCurrentPrice_OmitsKeyHeaderWhenUnset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}, Config{}, nil)

	_, err := c.CurrentPrice(context.Background())
	require.NoError(t, err)
}

func TestCurrentPrice_MissingField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, Config{}, nil)

	_, err := c.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHistoricalPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart/range", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "usd", q.Get("vs_currency"))
		// 2021-03-01T00:00:00Z
		assert.Equal(t, "1614556800", q.Get("from"))
		assert.Equal(t, "1614643200", q.Get("to"))
		_, _ = w.Write([]byte(`{"prices":[[1614556800000,45159.5],[1614560400000,45500.1]]}`))
	}, Config{}, nil)

	p, err := c.HistoricalPrice(context.Background(), models.YearMonth{Year: 2021, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 45159.5, p)
}

func TestHistoricalPrice_EmptyPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prices":[]}`))
	}, Config{}, nil)

	_, err := c.HistoricalPrice(context.Background(), models.YearMonth{Year: 2012, Month: 1})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestGet_TooManyRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, Config{}, nil)

	_, err := c.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGet_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{}, nil)

	_, err := c.CurrentPrice(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestGet_LocalBudgetExhausted(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}, Config{RateLimit: ratelimit.Policy{Capacity: 1}}, ratelimit.New())

	_, err := c.CurrentPrice(context.Background())
	require.NoError(t, err)

	_, err = c.CurrentPrice(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls)
}
