package module

import (
	"time"

	"cronslate/internal/platform/config"
)

// Options controls the quota tracker limits
type Options struct {
	DailyLimit    int
	PerCallerMax  int
	Window        time.Duration
	BurstMax      int
	BurstWindow   time.Duration
	FlushDebounce time.Duration
	DailyTTL      time.Duration
}

// FromConfig reads with QUOTA_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("QUOTA_")
	return Options{
		DailyLimit:    c.MayInt("DAILY_LIMIT", 30),
		PerCallerMax:  c.MayInt("PER_CALLER_MAX", 3),
		Window:        c.MayDuration("WINDOW", time.Hour),
		BurstMax:      c.MayInt("BURST_MAX", 2),
		BurstWindow:   c.MayDuration("BURST_WINDOW", time.Minute),
		FlushDebounce: c.MayDuration("FLUSH_DEBOUNCE", 2*time.Second),
		DailyTTL:      c.MayDuration("DAILY_TTL", 48*time.Hour),
	}
}
