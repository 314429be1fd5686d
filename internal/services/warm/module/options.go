package module

import (
	"time"

	"lectern/internal/platform/config"
)

// Options holds configuration options for the warm service
type Options struct {
	Workers      int
	DelayPerItem time.Duration
	MaxRetries   int
	RetryBase    time.Duration
	ItemTimeout  time.Duration
	MaxRangeDays int
}

// FromConfig reads the warm options from config with LECTERN_WARM_ prefix
func FromConfig(cfg config.Conf) Options {
	w := cfg.Prefix("LECTERN_WARM_")
	return Options{
		Workers:      w.MayInt("WORKERS", 4),
		DelayPerItem: w.MayDuration("DELAY", 0),
		MaxRetries:   w.MayInt("RETRIES", 3),
		RetryBase:    w.MayDuration("RETRY_BASE", 500*time.Millisecond),
		ItemTimeout:  w.MayDuration("ITEM_TIMEOUT", 2*time.Minute),
		MaxRangeDays: w.MayInt("MAX_RANGE_DAYS", 400),
	}
}
