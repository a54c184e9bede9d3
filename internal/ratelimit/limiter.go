// Package ratelimit throttles calls to external data providers. Every
// enrichment pass funnels its provider requests through a Limiter so quota
// terms are honored regardless of which provider backs the pass.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter paces provider requests.
type Limiter interface {
	// Wait blocks until the next request may be sent or the context ends.
	Wait(ctx context.Context) error
	// Allow reports whether a request may be sent right now, consuming
	// the slot when it may.
	Allow() bool
	// RetryAfter returns how long to back off after the given failed
	// attempt (1-based).
	RetryAfter(attempt int) time.Duration
	// Reset clears accumulated pacing state.
	Reset()
}

// Strategy selects a pacing algorithm.
type Strategy string

const (
	// StrategyFixedDelay spaces requests a constant interval apart. The
	// right choice for scraping-adjacent providers that watch for bursts.
	StrategyFixedDelay Strategy = "fixed_delay"
	// StrategyTokenBucket allows short bursts at a sustained average rate.
	StrategyTokenBucket Strategy = "token_bucket"
)

// Config holds limiter settings. Zero values fall back to defaults.
type Config struct {
	Strategy          Strategy      `yaml:"strategy"`
	Delay             time.Duration `yaml:"delay"`
	RequestsPerSec    float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxRetries        int           `yaml:"max_retries"`
	InitialBackoff    time.Duration `yaml:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// DefaultConfig returns the pacing used when a pass does not configure
// its own.
func DefaultConfig() Config {
	return Config{
		Strategy:          StrategyFixedDelay,
		Delay:             time.Second,
		RequestsPerSec:    2,
		Burst:             4,
		MaxRetries:        5,
		InitialBackoff:    time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2,
	}
}

func applyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	if cfg.Delay <= 0 {
		cfg.Delay = def.Delay
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = def.RequestsPerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = def.BackoffMultiplier
	}
	return cfg
}

// New creates a limiter for the configured strategy.
func New(cfg Config) (Limiter, error) {
	cfg = applyDefaults(cfg)
	switch cfg.Strategy {
	case StrategyFixedDelay:
		return newFixedDelay(cfg), nil
	case StrategyTokenBucket:
		return newTokenBucket(cfg), nil
	}
	return nil, fmt.Errorf("unknown rate limit strategy %q", cfg.Strategy)
}
