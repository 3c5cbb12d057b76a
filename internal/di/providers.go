package di

import (
	"fmt"

	drepo "HodlCalc/internal/domain/repository"
	"HodlCalc/internal/handler/api"
	"HodlCalc/internal/repository"
	"HodlCalc/internal/scheduler"
	"HodlCalc/internal/service/coingecko"
	"HodlCalc/internal/service/ratelimit"
	"HodlCalc/internal/services/forecast"
	"HodlCalc/internal/services/history"
	"HodlCalc/internal/usecase"
	"HodlCalc/pkg/cache"
	"HodlCalc/pkg/config"
	xhttp "HodlCalc/pkg/http"
	pkgkafka "HodlCalc/pkg/kafka"
	applogger "HodlCalc/pkg/logger"
	"HodlCalc/pkg/metrics"
	"HodlCalc/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideKafkaProducer creates a Kafka producer for aggregated error logs.
// It returns nil when log collection is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		Compression:  cfg.Kafka.Compression,
		MaxAttempts:  cfg.Kafka.Producer.MaxAttempts,
		Linger:       cfg.Kafka.Producer.Linger,
		BatchSize:    cfg.Kafka.Producer.BatchSize,
		BatchBytes:   cfg.Kafka.Producer.BatchBytes,
		WriteTimeout: cfg.Kafka.Producer.WriteTimeout,
		ReadTimeout:  cfg.Kafka.Producer.ReadTimeout,
		Async:        cfg.Kafka.Producer.Async,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) drepo.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideCache creates the price cache: memory only, or memory in front of
// Redis when Redis is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	c := cfg.Cache
	if !c.Redis.Enabled {
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(c.MemoryMaxSize),
			cache.WithMemoryDefaultTTL(c.HistoricalTTL),
		), nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(c.Redis.Host),
		cache.WithRedisPort(c.Redis.Port),
		cache.WithRedisPassword(c.Redis.Password),
		cache.WithRedisDB(c.Redis.DB),
		cache.WithRedisPrefix(c.Redis.Prefix),
		cache.WithRedisPool(c.Redis.PoolSize, 2, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(c.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(c.MemoryTTL),
	), nil
}

// ProvideRateLimiter creates the outbound request limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvidePriceSource creates the CoinGecko client.
func ProvidePriceSource(cfg *config.Config, limiter *ratelimit.Limiter) drepo.PriceSource {
	return coingecko.New(coingecko.Config{
		BaseURL: cfg.CoinGecko.BaseURL,
		APIKey:  cfg.CoinGecko.APIKey,
		Timeout: cfg.CoinGecko.Timeout,
		RateLimit: ratelimit.Policy{
			Key:          "coingecko",
			Capacity:     cfg.CoinGecko.RateLimit.Capacity,
			RefillPerSec: cfg.CoinGecko.RateLimit.RefillPerSec,
		},
	}, limiter)
}

// ProvideFallbackPrices returns the built-in monthly price table.
func ProvideFallbackPrices() drepo.FallbackPrices {
	return history.Default()
}

// ProvidePriceRepository creates the cache -> API -> fallback repository.
func ProvidePriceRepository(
	cfg *config.Config,
	source drepo.PriceSource,
	fallback drepo.FallbackPrices,
	c cache.Service,
	m drepo.Metrics,
	l *applogger.Logger,
) drepo.PriceRepository {
	return repository.NewPriceRepository(source, fallback, c, m, l,
		repository.WithTTLs(cfg.Cache.CurrentTTL, cfg.Cache.HistoricalTTL),
	)
}

// ProvideForecastModel builds the projection model from config.
func ProvideForecastModel(cfg *config.Config) (*forecast.Model, error) {
	anchors, err := forecast.AnchorTableFromMap(cfg.Forecast.Anchors)
	if err != nil {
		return nil, fmt.Errorf("forecast anchors: %w", err)
	}
	m, err := forecast.NewModel(anchors, cfg.Forecast.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("forecast model: %w", err)
	}
	return m, nil
}

// ProvideLimits maps the dashboard section onto input limits.
func ProvideLimits(cfg *config.Config) usecase.Limits {
	d := cfg.Dashboard
	return usecase.Limits{
		MinYear:          d.MinYear,
		MaxYear:          d.MaxYear,
		MinBTC:           d.MinBTC,
		MaxBTC:           d.MaxBTC,
		MinUSD:           d.MinUSD,
		MaxUSD:           d.MaxUSD,
		MaxMonthlyPoints: d.MaxMonthlyPoints,
		QuarterlyStep:    d.QuarterlyStep,
		ChartConcurrency: d.ChartConcurrency,
	}
}

// ProvidePriceStream creates the WebSocket price stream handler.
func ProvidePriceStream(cfg *config.Config, l *applogger.Logger, router *usecase.PriceRouter) *api.PriceStreamHandler {
	return api.NewPriceStreamHandler(l, router, api.StreamConfig{
		Interval:     cfg.Stream.Interval,
		PingInterval: cfg.Stream.PingInterval,
		WriteTimeout: cfg.Stream.WriteTimeout,
	})
}

// ProvideHTTPServer creates the echo server with the dashboard routes.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.DashboardEchoHandler) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path, cfg.Metrics.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideScheduler creates the cache-warming scheduler.
func ProvideScheduler(
	cfg *config.Config,
	prices drepo.PriceRepository,
	c cache.Service,
	m drepo.Metrics,
	l *applogger.Logger,
) *scheduler.Scheduler {
	return scheduler.New(scheduler.Config{
		Enabled:     cfg.Scheduler.Enabled,
		RefreshSpec: cfg.Scheduler.RefreshCron,
		JobTimeout:  cfg.Scheduler.JobTimeout,
		RunOnStart:  cfg.Scheduler.RunOnStart,
	}, prices, c, m, l)
}

// ProvideApp creates the application and attaches log shipping when a
// producer is configured.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	sched *scheduler.Scheduler,
	c cache.Service,
	producer *pkgkafka.Producer,
) *server.App {
	app := server.New(l, srv, sched)
	app.OnClose("cache", c)

	if producer != nil {
		app.OnClose("kafka producer", producer)
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collect.Interval,
			CountThreshold: cfg.Logging.Collect.CountThreshold,
			Topic:          cfg.Logging.Collect.Topic,
			Publisher:      producer,
		})
		// closed first so the final flush still has a producer
		app.OnClose("log collector", closerFunc(func() error {
			l.RemoveCollector()
			return nil
		}))
	}
	return app
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
