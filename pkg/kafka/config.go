package kafka

import (
	"errors"
	"time"
)

// ProducerConfig mirrors the kafka section of the service config. Zero
// fields fall back to DefaultProducerConfig.
type ProducerConfig struct {
	Brokers      []string
	RequiredAcks int
	Compression  string
	MaxAttempts  int
	Linger       time.Duration
	BatchSize    int
	BatchBytes   int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	Async        bool
}

// DefaultProducerConfig suits the low volume of aggregated log batches.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		RequiredAcks: 1,
		Compression:  "snappy",
		MaxAttempts:  3,
		Linger:       50 * time.Millisecond,
		BatchSize:    100,
		BatchBytes:   1 << 20,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
}

func (c ProducerConfig) withDefaults() (ProducerConfig, error) {
	if len(c.Brokers) == 0 {
		return c, errors.New("kafka: at least one broker is required")
	}
	d := DefaultProducerConfig()
	if c.RequiredAcks == 0 {
		c.RequiredAcks = d.RequiredAcks
	}
	if c.Compression == "" {
		c.Compression = d.Compression
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.Linger <= 0 {
		c.Linger = d.Linger
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.BatchBytes <= 0 {
		c.BatchBytes = d.BatchBytes
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	return c, nil
}
