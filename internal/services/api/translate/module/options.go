package module

import (
	"time"

	"cronslate/internal/platform/config"
)

// Options controls the translate orchestrator
type Options struct {
	Primary          string
	Backup           string
	RetryBackoff     time.Duration
	RetryTemperature float64
	CacheTTL         time.Duration
	CacheVersion     int
}

// FromConfig reads with TRANSLATE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("TRANSLATE_")
	return Options{
		Primary:          c.MayString("MODEL_PRIMARY", "gpt-4.1-mini"),
		Backup:           c.MayString("MODEL_BACKUP", "gpt-4o-mini"),
		RetryBackoff:     c.MayDuration("RETRY_BACKOFF", 250*time.Millisecond),
		RetryTemperature: c.MayFloat64("RETRY_TEMPERATURE", 0.3),
		CacheTTL:         c.MayDuration("CACHE_TTL", 21*24*time.Hour),
		CacheVersion:     c.MayInt("CACHE_VERSION", 1),
	}
}
