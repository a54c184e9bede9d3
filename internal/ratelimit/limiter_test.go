package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Strategy: StrategyFixedDelay})
	require.NoError(t, err)
	assert.IsType(t, &fixedDelay{}, l)

	l, err = New(Config{Strategy: StrategyTokenBucket})
	require.NoError(t, err)
	assert.IsType(t, &tokenBucket{}, l)

	// Empty strategy falls back to the default.
	l, err = New(Config{})
	require.NoError(t, err)
	assert.IsType(t, &fixedDelay{}, l)

	_, err = New(Config{Strategy: "leaky_cauldron"})
	require.Error(t, err)
}

func TestFixedDelay_Allow(t *testing.T) {
	l := newFixedDelay(applyDefaults(Config{Delay: 100 * time.Millisecond}))

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	time.Sleep(120 * time.Millisecond)
	assert.True(t, l.Allow())
}

func TestFixedDelay_Reset(t *testing.T) {
	l := newFixedDelay(applyDefaults(Config{Delay: time.Hour}))
	require.True(t, l.Allow())
	require.False(t, l.Allow())

	l.Reset()
	assert.True(t, l.Allow())
}

func TestFixedDelay_WaitHonorsContext(t *testing.T) {
	l := newFixedDelay(applyDefaults(Config{Delay: time.Hour}))
	require.NoError(t, l.Wait(context.Background())) // first call is free

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestTokenBucket_BurstAndRefill(t *testing.T) {
	l := newTokenBucket(applyDefaults(Config{
		Strategy:       StrategyTokenBucket,
		RequestsPerSec: 10,
		Burst:          3,
	}))

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow(), "token %d", i)
	}
	assert.False(t, l.Allow())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, l.Allow())
}

func TestTokenBucket_WaitHonorsContext(t *testing.T) {
	l := newTokenBucket(applyDefaults(Config{
		Strategy:       StrategyTokenBucket,
		RequestsPerSec: 0.001,
		Burst:          1,
	}))
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestBackoffDuration(t *testing.T) {
	cfg := applyDefaults(Config{
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2,
		MaxRetries:        5,
	})

	assert.Zero(t, backoffDuration(0, cfg))

	// Jitter is +/-25% of the exponential base.
	d := backoffDuration(1, cfg)
	assert.GreaterOrEqual(t, d, 750*time.Millisecond)
	assert.LessOrEqual(t, d, 1250*time.Millisecond)

	d = backoffDuration(3, cfg)
	assert.GreaterOrEqual(t, d, 3*time.Second)
	assert.LessOrEqual(t, d, 5*time.Second)

	// Past the retry budget the cap applies exactly.
	assert.Equal(t, cfg.MaxBackoff, backoffDuration(99, cfg))
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(1, 3))
	assert.True(t, ShouldRetry(3, 3))
	assert.False(t, ShouldRetry(4, 3))
}
