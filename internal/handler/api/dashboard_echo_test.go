package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/repository"
	"HodlCalc/internal/services/forecast"
	"HodlCalc/internal/usecase"
	xlogger "HodlCalc/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

type fakePrices struct {
	current    float64
	currentErr error
	historical map[models.YearMonth]float64
}

func (f *fakePrices) Current(context.Context) (models.PriceQuote, error) {
	if f.currentErr != nil {
		return models.PriceQuote{}, f.currentErr
	}
	return models.PriceQuote{YearMonth: models.YearMonthOf(testNow), Price: f.current, Source: models.SourceCoinGecko}, nil
}

func (f *fakePrices) RefreshCurrent(ctx context.Context) (models.PriceQuote, error) {
	return f.Current(ctx)
}

func (f *fakePrices) Historical(_ context.Context, ym models.YearMonth) (models.PriceQuote, error) {
	if p, ok := f.historical[ym]; ok {
		return models.PriceQuote{YearMonth: ym, Price: p, Source: models.SourceCoinGecko}, nil
	}
	return models.PriceQuote{}, repository.ErrPriceUnavailable
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEcho(t *testing.T, prices *fakePrices) *echo.Echo {
	t.Helper()
	anchors, err := forecast.AnchorTableFromMap(map[int]float64{2030: 800_000, 2040: 2_500_000, 2050: 6_000_000})
	require.NoError(t, err)
	model, err := forecast.NewModel(anchors, 22_000_000)
	require.NoError(t, err)

	log := xlogger.Nop()
	router := usecase.NewPriceRouter(prices, model)
	limits := usecase.DefaultLimits()
	stream := NewPriceStreamHandler(log, router, StreamConfig{Interval: 50 * time.Millisecond})

	h := NewDashboardEchoHandler(log, router,
		usecase.NewValuationUseCase(router, model, limits),
		usecase.NewChartUseCase(router, limits, log),
		usecase.NewModelInfoUseCase(prices, model),
		stream,
	)
	h.now = func() time.Time { return testNow }

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func defaultPrices() *fakePrices {
	return &fakePrices{
		current: 100_000,
		historical: map[models.YearMonth]float64{
			{Year: 2020, Month: 1}: 7_200,
			{Year: 2020, Month: 2}: 9_000,
			{Year: 2020, Month: 3}: 6_400,
		},
	}
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, defaultPrices())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPrice_Historical(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/price?year=2020&month=1", "")
	require.Equal(t, http.StatusOK, code)

	var q models.PriceQuote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, 7_200.0, q.Price)
	assert.False(t, q.Projected)
}

func TestPrice_Future(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/price?year=2035&month=6", "")
	require.Equal(t, http.StatusOK, code)

	var q models.PriceQuote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.True(t, q.Projected)
	assert.Equal(t, models.SourceProjection, q.Source)
}

func TestPrice_ValidationErrors(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	for _, target := range []string{
		"/api/price",
		"/api/price?year=2020&month=13",
		"/api/price?year=abc",
	} {
		code, env := do(t, e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, code, target)
		assert.Equal(t, http.StatusBadRequest, env.Status, target)
	}
}

func TestPrice_UpstreamUnavailable(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, _ := do(t, e, http.MethodGet, "/api/price?year=2015&month=1", "")
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestCurrentPrice(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/price/current", "")
	require.Equal(t, http.StatusOK, code)

	var q models.PriceQuote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, 100_000.0, q.Price)
}

func TestProjection_WithReferencePrice(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/projection?year=2030&month=1&price=50000", "")
	require.Equal(t, http.StatusOK, code)

	var p models.Projection
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 50_000.0, p.CurrentPrice)
	assert.Equal(t, 800_000.0, p.BasePrice)
	assert.InEpsilon(t, 800_000*forecast.VolatilityFactor(2030, 1), p.Price, 1e-12)
}

func TestProjection_PastMonthIsBadRequest(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	for _, target := range []string{
		"/api/projection?year=2020&month=5",
		"/api/projection?year=2025&month=6",
	} {
		code, env := do(t, e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, code, target)
		assert.Equal(t, http.StatusBadRequest, env.Status, target)
	}
}

func TestValuation(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodPost, "/api/valuation",
		`{"input_type":"btc","btc_amount":0.5,"purchase_year":2020,"purchase_month":1}`)
	require.Equal(t, http.StatusOK, code)

	var v models.Valuation
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, 46_400.0, v.ProfitLoss)
	assert.Equal(t, 100_000.0, v.ComparisonPrice)
	assert.False(t, v.IsProjection)
}

func TestValuation_RejectsFuturePurchase(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodPost, "/api/valuation",
		`{"input_type":"btc","btc_amount":1,"purchase_year":2027,"purchase_month":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, env.Status)
}

func TestValuation_USDRequiresAmount(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, _ := do(t, e, http.MethodPost, "/api/valuation",
		`{"input_type":"usd","purchase_year":2020,"purchase_month":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestChart(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/chart?from_year=2020&from_month=1&to_year=2020&to_month=3", "")
	require.Equal(t, http.StatusOK, code)

	var s models.ChartSeries
	require.NoError(t, json.Unmarshal(env.Data, &s))
	require.Len(t, s.Points, 3)
	assert.Equal(t, 1.0, s.BTCAmount)
	assert.Equal(t, 9_000.0, s.Stats.MaxPrice)
	assert.Equal(t, 6_400.0, s.Stats.MinPrice)
}

func TestChart_BadRange(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, _ := do(t, e, http.MethodGet, "/api/chart?from_year=2021&to_year=2020", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestModel(t *testing.T) {
	e := newTestEcho(t, defaultPrices())

	code, env := do(t, e, http.MethodGet, "/api/model", "")
	require.Equal(t, http.StatusOK, code)

	var info models.ModelInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Len(t, info.Anchors, 3)
	assert.Equal(t, 22_000_000.0, info.MaxCap)
}

func TestModel_InternalError(t *testing.T) {
	prices := defaultPrices()
	prices.currentErr = errors.New("boom")
	e := newTestEcho(t, prices)

	code, _ := do(t, e, http.MethodGet, "/api/model", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestPriceStream(t *testing.T) {
	e := newTestEcho(t, defaultPrices())
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/price"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg streamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "price", msg.Type)
		require.NotNil(t, msg.Quote)
		assert.Equal(t, 100_000.0, msg.Quote.Price)
	}
}

func TestPriceStream_ReportsErrors(t *testing.T) {
	prices := defaultPrices()
	prices.currentErr = repository.ErrPriceUnavailable
	e := newTestEcho(t, prices)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/price"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg streamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Nil(t, msg.Quote)
}
