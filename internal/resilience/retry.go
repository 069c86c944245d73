// Package resilience provides retry with exponential backoff for the
// rate-sensitive external calls the pipeline makes (model API, browser
// navigation). Only transient failures are retried; malformed responses and
// logic errors propagate on the first attempt.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retry behavior.
type Policy struct {
	// Attempts is the total number of tries including the first. 1 disables
	// retries. Default: 3.
	Attempts int

	// BaseDelay is the sleep before the first retry; it doubles per attempt
	// with ±25% jitter. Default: 500ms.
	BaseDelay time.Duration

	// MaxDelay caps the computed sleep. Default: 30s.
	MaxDelay time.Duration

	// Retryable overrides the transient-error check. Nil uses IsTransient.
	Retryable func(error) bool
}

// DefaultPolicy is suitable for API calls.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 30 * time.Second}
}

// Do runs fn under the policy, retrying transient failures. Context
// cancellation stops retries immediately and returns the last error.
func Do[T any](ctx context.Context, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == p.Attempts-1 {
			break
		}

		zap.L().Warn("retrying after transient failure",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 500 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	return p
}

func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	d = math.Min(d, float64(p.MaxDelay))
	// ±25% jitter keeps retries from aligning with provider rate windows.
	d += d * 0.25 * (rand.Float64()*2 - 1)
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
