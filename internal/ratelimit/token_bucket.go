package ratelimit

import (
	"context"
	"sync"
	"time"
)

// tokenBucket allows bursts up to its capacity at a sustained average rate.
type tokenBucket struct {
	rate  float64
	burst int
	cfg   Config

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

func newTokenBucket(cfg Config) *tokenBucket {
	return &tokenBucket{
		rate:       cfg.RequestsPerSec,
		burst:      cfg.Burst,
		cfg:        cfg,
		tokens:     float64(cfg.Burst),
		lastRefill: time.Now(),
	}
}

func (l *tokenBucket) Wait(ctx context.Context) error {
	l.mu.Lock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}
	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	l.mu.Lock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
	}
	l.mu.Unlock()
	return nil
}

func (l *tokenBucket) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

func (l *tokenBucket) RetryAfter(attempt int) time.Duration {
	return backoffDuration(attempt, l.cfg)
}

func (l *tokenBucket) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = float64(l.burst)
	l.lastRefill = time.Now()
}

// refill accrues tokens for the elapsed time. Caller holds the lock.
func (l *tokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	if elapsed <= 0 {
		return
	}
	l.tokens += elapsed.Seconds() * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.lastRefill = now
}
