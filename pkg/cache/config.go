package cache

import "time"

// Config holds cache tuning read from the environment (caarlos0/env tags).
type Config struct {
	DefaultTTL    time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"60s"`
	ScanBatchSize int           `env:"CACHE_SCAN_BATCH_SIZE" envDefault:"100"`
	SingleFlight  bool          `env:"CACHE_SINGLE_FLIGHT" envDefault:"false"`
}

// Options converts the config into cache options.
// Zero values are skipped so package defaults apply.
func (c Config) Options() []Option {
	var opts []Option
	if c.DefaultTTL > 0 {
		opts = append(opts, WithDefaultTTL(c.DefaultTTL))
	}
	if c.ScanBatchSize > 0 {
		opts = append(opts, WithScanBatchSize(c.ScanBatchSize))
	}
	if c.SingleFlight {
		opts = append(opts, WithSingleFlight())
	}
	return opts
}
