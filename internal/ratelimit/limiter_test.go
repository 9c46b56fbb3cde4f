package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"inv_checker/internal/ratelimit"
)

func TestLimiterBackoffGrowth(t *testing.T) {
	rq := require.New(t)

	const (
		baseDelay = time.Second
		maxDelay  = 60 * time.Second
	)

	limiter := ratelimit.NewLimiter(baseDelay, maxDelay).
		WithGrowthFactor(2).
		WithJitter(0).
		WithClock(clock.NewMock())

	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
		60 * time.Second, // capped
		60 * time.Second,
	}

	for i, want := range expected {
		limiter.ReportOutcome(true)

		rq.Equal(want, limiter.CurrentDelay(), "after %d throttles", i+1)
		rq.Equal(i+1, limiter.ConsecutiveFailures())
	}
}

func TestLimiterSuccessResetsAndDecays(t *testing.T) {
	rq := require.New(t)

	limiter := ratelimit.NewLimiter(time.Second, 60*time.Second).
		WithGrowthFactor(2).
		WithJitter(0).
		WithClock(clock.NewMock())

	for range 3 {
		limiter.ReportOutcome(true)
	}

	rq.Equal(8*time.Second, limiter.CurrentDelay())
	rq.Equal(3, limiter.ConsecutiveFailures())

	limiter.ReportOutcome(false)

	rq.Equal(0, limiter.ConsecutiveFailures())
	rq.Equal(4*time.Second, limiter.CurrentDelay())

	// Keep decaying, never below base.
	limiter.ReportOutcome(false)
	rq.Equal(2*time.Second, limiter.CurrentDelay())

	limiter.ReportOutcome(false)
	rq.Equal(time.Second, limiter.CurrentDelay())

	limiter.ReportOutcome(false)
	rq.Equal(time.Second, limiter.CurrentDelay())
}

func TestLimiterAcquirePacing(t *testing.T) {
	rq := require.New(t)

	mockClock := clock.NewMock()

	limiter := ratelimit.NewLimiter(time.Second, 60*time.Second).
		WithJitter(0).
		WithClock(mockClock)

	ctx := context.Background()

	// First slot is granted immediately.
	rq.NoError(limiter.Acquire(ctx))

	done := make(chan error, 1)

	go func() {
		done <- limiter.Acquire(ctx)
	}()

	// Let the goroutine park on the clock.
	time.Sleep(50 * time.Millisecond)

	select {
	case <-done:
		t.Fatal("slot granted before the inter-request delay elapsed")
	default:
	}

	mockClock.Add(time.Second)

	select {
	case err := <-done:
		rq.NoError(err)
	case <-time.After(2 * time.Second):
		t.Fatal("slot not granted after the delay elapsed")
	}
}

func TestLimiterAcquireContextCanceled(t *testing.T) {
	rq := require.New(t)

	mockClock := clock.NewMock()

	limiter := ratelimit.NewLimiter(time.Second, 60*time.Second).
		WithJitter(0).
		WithClock(mockClock)

	ctx, cancel := context.WithCancel(context.Background())

	rq.NoError(limiter.Acquire(ctx))

	done := make(chan error, 1)

	go func() {
		done <- limiter.Acquire(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		rq.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not return after cancellation")
	}
}
