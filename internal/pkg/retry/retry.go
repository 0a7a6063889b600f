// Package retry executes operations under a retry-with-exponential-backoff
// policy. The delay doubles per attempt up to a cap, and only failures the
// ShouldRetry predicate accepts are re-attempted.
package retry

import (
	"context"
	"time"
)

const (
	defaultBaseDelay = 50 * time.Millisecond
	defaultMaxDelay  = 1 * time.Second
)

// Policy configures Execute. The zero value performs a single attempt; a nil
// ShouldRetry never accepts a failure.
type Policy struct {
	// Retries is the number of re-attempts after the first call.
	Retries int
	// BaseDelay is the sleep before the first retry; it doubles per attempt.
	BaseDelay time.Duration
	// MaxDelay caps the per-attempt sleep.
	MaxDelay time.Duration
	// ShouldRetry decides whether a failure may be re-attempted.
	ShouldRetry func(err error) bool
	// OnRetry is invoked before each re-attempt with the failure and the
	// 1-based attempt number.
	OnRetry func(err error, attempt int)
}

// Execute runs op, retrying per the policy. It returns op's first success,
// or the last error once attempts are exhausted or a non-retryable failure
// occurs. Context cancellation during a backoff sleep aborts with ctx.Err().
func Execute[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	retries := p.Retries
	if retries < 0 {
		retries = 0
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}

	var zero T
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.ShouldRetry == nil || !p.ShouldRetry(err) || attempt == retries {
			return zero, err
		}

		delay := baseDelay << attempt
		if delay > maxDelay {
			delay = maxDelay
		}

		if p.OnRetry != nil {
			p.OnRetry(err, attempt+1)
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
