// Package ratelimit paces outbound market requests and adapts to upstream
// throttling: every 429 doubles the inter-request delay up to a cap, every
// success decays it back toward the base.
package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type Limiter struct {
	baseDelay    time.Duration
	maxDelay     time.Duration
	growthFactor float64
	jitter       float64

	clock clock.Clock

	mu                  sync.Mutex
	currentDelay        time.Duration
	consecutiveFailures int
	lastRequest         time.Time
}

func NewLimiter(baseDelay, maxDelay time.Duration) *Limiter {
	return &Limiter{
		baseDelay:    baseDelay,
		maxDelay:     maxDelay,
		growthFactor: 2.0,
		jitter:       0.2,
		clock:        clock.New(),
		currentDelay: baseDelay,
	}
}

func (l *Limiter) WithGrowthFactor(factor float64) *Limiter {
	if factor > 1 {
		l.growthFactor = factor
	}
	return l
}

func (l *Limiter) WithJitter(jitter float64) *Limiter {
	if jitter >= 0 {
		l.jitter = jitter
	}
	return l
}

func (l *Limiter) WithClock(clk clock.Clock) *Limiter {
	l.clock = clk
	return l
}

// Acquire blocks until a request slot is available. It is the only suspension
// point of the pipeline; resolution stays sequential so the adaptive delay
// keeps meaning.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	if l.lastRequest.IsZero() {
		l.lastRequest = l.clock.Now()
		l.mu.Unlock()

		return nil
	}

	delay := l.jittered(l.currentDelay)
	elapsed := l.clock.Since(l.lastRequest)
	l.mu.Unlock()

	if elapsed < delay {
		select {
		case <-l.clock.After(delay - elapsed):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	l.mu.Lock()
	l.lastRequest = l.clock.Now()
	l.mu.Unlock()

	return nil
}

// ReportOutcome updates the policy state after a request. Throttled grows the
// delay as min(base × factor^failures, max); success resets the failure count
// and decays the delay toward (never below) the base.
func (l *Limiter) ReportOutcome(throttled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if throttled {
		l.consecutiveFailures++

		grown := float64(l.baseDelay) * math.Pow(l.growthFactor, float64(l.consecutiveFailures))
		l.currentDelay = min(time.Duration(grown), l.maxDelay)

		return
	}

	l.consecutiveFailures = 0
	l.currentDelay = max(time.Duration(float64(l.currentDelay)/l.growthFactor), l.baseDelay)
}

func (l *Limiter) CurrentDelay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.currentDelay
}

func (l *Limiter) ConsecutiveFailures() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.consecutiveFailures
}

func (l *Limiter) jittered(delay time.Duration) time.Duration {
	if l.jitter == 0 {
		return delay
	}

	spread := l.jitter * float64(delay)
	offset := (rand.Float64()*2 - 1) * spread //nolint:gosec // pacing jitter, not crypto

	return time.Duration(float64(delay) + offset)
}
