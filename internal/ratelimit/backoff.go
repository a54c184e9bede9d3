package ratelimit

import (
	"math"
	"math/rand"
	"time"
)

// backoffDuration computes exponential backoff with +/-25% jitter for the
// given 1-based attempt. Attempts beyond MaxRetries get the cap.
func backoffDuration(attempt int, cfg Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > cfg.MaxRetries {
		return cfg.MaxBackoff
	}

	base := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1))
	if base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}

	jittered := base + base*0.25*(2*rand.Float64()-1)
	if jittered < 0 {
		jittered = 0
	}
	if jittered > float64(cfg.MaxBackoff) {
		jittered = float64(cfg.MaxBackoff)
	}
	return time.Duration(jittered)
}

// ShouldRetry reports whether another attempt is allowed.
func ShouldRetry(attempt, maxRetries int) bool {
	return attempt <= maxRetries
}
