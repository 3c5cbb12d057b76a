package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Metrics struct {
		Enabled       bool          `yaml:"enabled" default:"true"`
		Path          string        `yaml:"path" default:"/metrics"`
		SlowThreshold time.Duration `yaml:"slow_threshold" default:"2s"`
	} `yaml:"metrics"`
	Logging struct {
		Level   string `yaml:"level" default:"info"`
		Format  string `yaml:"format" default:"console"`
		Output  string `yaml:"output" default:"stdout"`
		Collect struct {
			Enabled        bool          `yaml:"enabled"`
			Topic          string        `yaml:"topic" default:"hodlcalc.logs"`
			Interval       time.Duration `yaml:"interval" default:"30s"`
			CountThreshold int           `yaml:"count_threshold" default:"100"`
		} `yaml:"collect"`
	} `yaml:"logging"`
	CoinGecko struct {
		BaseURL   string        `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		APIKey    string        `yaml:"api_key"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		RateLimit struct {
			Capacity     float64 `yaml:"capacity" default:"10"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"0.5"`
		} `yaml:"rate_limit"`
	} `yaml:"coingecko"`
	Cache struct {
		CurrentTTL    time.Duration `yaml:"current_ttl" default:"1h"`
		HistoricalTTL time.Duration `yaml:"historical_ttl" default:"24h"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"2000"`
		MemoryTTL     time.Duration `yaml:"memory_ttl" default:"5m"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"hodlcalc"`
			PoolSize int    `yaml:"pool_size" default:"10"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Forecast struct {
		Anchors  map[int]float64 `yaml:"anchors"`
		MaxPrice float64         `yaml:"max_price" default:"22000000"`
	} `yaml:"forecast"`
	Dashboard struct {
		MinYear          int     `yaml:"min_year" default:"2010"`
		MaxYear          int     `yaml:"max_year" default:"2050"`
		MinBTC           float64 `yaml:"min_btc" default:"0.0001"`
		MaxBTC           float64 `yaml:"max_btc" default:"1000000"`
		MinUSD           float64 `yaml:"min_usd" default:"1"`
		MaxUSD           float64 `yaml:"max_usd" default:"10000000"`
		MaxMonthlyPoints int     `yaml:"max_monthly_points" default:"120"`
		QuarterlyStep    int     `yaml:"quarterly_step" default:"3"`
		ChartConcurrency int     `yaml:"chart_concurrency" default:"4"`
	} `yaml:"dashboard"`
	Scheduler struct {
		Enabled     bool          `yaml:"enabled" default:"true"`
		RefreshCron string        `yaml:"refresh_cron" default:"0 */15 * * * *"`
		JobTimeout  time.Duration `yaml:"job_timeout" default:"30s"`
		RunOnStart  bool          `yaml:"run_on_start" default:"true"`
	} `yaml:"scheduler"`
	Stream struct {
		Interval     time.Duration `yaml:"interval" default:"30s"`
		PingInterval time.Duration `yaml:"ping_interval" default:"20s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	} `yaml:"stream"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// DefaultAnchors is the anchor table used when forecast.anchors is empty.
func DefaultAnchors() map[int]float64 {
	return map[int]float64{
		2030: 800_000,
		2040: 2_500_000,
		2050: 6_000_000,
	}
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	c.Forecast.Anchors = DefaultAnchors()
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(c.Forecast.Anchors) == 0 {
		c.Forecast.Anchors = DefaultAnchors()
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("HODLCALC_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if len(c.Forecast.Anchors) < 2 {
		return fmt.Errorf("forecast.anchors needs at least 2 entries, got %d", len(c.Forecast.Anchors))
	}
	for year, price := range c.Forecast.Anchors {
		if !(price > 0) {
			return fmt.Errorf("forecast.anchors[%d] must be positive, got %v", year, price)
		}
	}
	if !(c.Forecast.MaxPrice > 0) {
		return fmt.Errorf("forecast.max_price must be positive")
	}
	d := c.Dashboard
	if d.MinYear >= d.MaxYear {
		return fmt.Errorf("dashboard.min_year (%d) must be before max_year (%d)", d.MinYear, d.MaxYear)
	}
	if !(d.MinBTC > 0) || d.MinBTC > d.MaxBTC {
		return fmt.Errorf("dashboard btc bounds are invalid: %v..%v", d.MinBTC, d.MaxBTC)
	}
	if !(d.MinUSD > 0) || d.MinUSD > d.MaxUSD {
		return fmt.Errorf("dashboard usd bounds are invalid: %v..%v", d.MinUSD, d.MaxUSD)
	}
	if d.MaxMonthlyPoints <= 0 || d.QuarterlyStep <= 0 || d.ChartConcurrency <= 0 {
		return fmt.Errorf("dashboard chart sampling values must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.RefreshCron == "" {
		return fmt.Errorf("scheduler.refresh_cron is required when the scheduler is enabled")
	}
	if c.Logging.Collect.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when logging.collect is enabled")
	}
	return nil
}

// KafkaEnabled reports whether a Kafka producer should be built.
func (c *Config) KafkaEnabled() bool {
	return c.Logging.Collect.Enabled && len(c.Kafka.Brokers) > 0
}
