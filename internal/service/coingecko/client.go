// Package coingecko fetches BTC/USD prices from the CoinGecko REST API.
package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/service/ratelimit"
	xhttp "HodlCalc/pkg/http"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"
	coinID       = "bitcoin"
	vsCurrency   = "usd"
)

var (
	// ErrNoData is returned when the API answers but carries no price.
	ErrNoData = errors.New("coingecko: no price data")
	// ErrRateLimited is returned when the local budget is exhausted or the
	// API answers 429.
	ErrRateLimited = errors.New("coingecko: rate limited")
)

// Config holds client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit ratelimit.Policy
}

// Client implements a PriceSource backed by CoinGecko.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	limiter *ratelimit.Limiter
	policy  ratelimit.Policy
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a CoinGecko client. A nil limiter disables local rate limiting.
func New(cfg Config, limiter *ratelimit.Limiter, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit.Key == "" {
		cfg.RateLimit.Key = "coingecko"
	}
	c := &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: limiter,
		policy:  cfg.RateLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type simplePriceResponse map[string]map[string]float64

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// CurrentPrice returns the latest BTC/USD spot price.
func (c *Client) CurrentPrice(ctx context.Context) (float64, error) {
	var out simplePriceResponse
	err := c.get(ctx, "/simple/price", map[string][]string{
		"ids":           {coinID},
		"vs_currencies": {vsCurrency},
	}, &out)
	if err != nil {
		return 0, fmt.Errorf("current price: %w", err)
	}
	p, ok := out[coinID][vsCurrency]
	if !ok || !(p > 0) {
		return 0, fmt.Errorf("current price: %w", ErrNoData)
	}
	return p, nil
}

// HistoricalPrice returns the first price CoinGecko reports during the first
// day of ym (UTC).
func (c *Client) HistoricalPrice(ctx context.Context, ym models.YearMonth) (float64, error) {
	from := ym.Time().Unix()
	to := from + 86400

	var out marketChartResponse
	err := c.get(ctx, "/coins/"+coinID+"/market_chart/range", map[string][]string{
		"vs_currency": {vsCurrency},
		"from":        {strconv.FormatInt(from, 10)},
		"to":          {strconv.FormatInt(to, 10)},
	}, &out)
	if err != nil {
		return 0, fmt.Errorf("historical price %s: %w", ym, err)
	}
	if len(out.Prices) == 0 || len(out.Prices[0]) < 2 || !(out.Prices[0][1] > 0) {
		return 0, fmt.Errorf("historical price %s: %w", ym, ErrNoData)
	}
	return out.Prices[0][1], nil
}

func (c *Client) get(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	if !c.policy.Allow(c.limiter) {
		return ErrRateLimited
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers[apiKeyHeader] = c.apiKey
	}

	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		Headers:     headers,
		QueryParams: query,
	}, dest)

	var se *xhttp.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return err
}
