package ratelimit

import (
	"context"
	"sync"
	"time"
)

// fixedDelay spaces requests a constant interval apart.
type fixedDelay struct {
	delay time.Duration
	cfg   Config

	mu   sync.Mutex
	next time.Time // earliest moment the next request may go out
}

func newFixedDelay(cfg Config) *fixedDelay {
	return &fixedDelay{delay: cfg.Delay, cfg: cfg}
}

func (l *fixedDelay) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.delay)
	l.mu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *fixedDelay) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Before(l.next) {
		return false
	}
	l.next = now.Add(l.delay)
	return true
}

func (l *fixedDelay) RetryAfter(attempt int) time.Duration {
	return backoffDuration(attempt, l.cfg)
}

func (l *fixedDelay) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next = time.Time{}
}
