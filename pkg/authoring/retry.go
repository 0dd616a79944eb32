package authoring

import (
	"context"
	"math"
	"time"
)

// RetryPolicy replaces the hardcoded retry loop: attempts, backoff and the
// retryable predicate are all injectable.
type RetryPolicy struct {
	MaxAttempts int                              // total attempts, first try included
	Backoff     func(attempt int) time.Duration  // delay before attempt N (N starts at 2)
	Retryable   func(err error) bool
}

// DefaultRetryPolicy mirrors the dashboard behavior: one try plus two
// retries, a fixed two second pause, retry only on transport/timeout kinds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     FixedBackoff(2 * time.Second),
		Retryable:   TransientOnly,
	}
}

// TransientOnly retries transport and timeout failures; backend rejections
// and validation errors are terminal.
func TransientOnly(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindTimeout:
		return true
	default:
		return false
	}
}

func FixedBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff grows base*factor^(attempt-2) capped at max.
func ExponentialBackoff(base, max time.Duration, factor float64) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt <= 2 {
			return base
		}
		d := float64(base) * math.Pow(factor, float64(attempt-2))
		if d > float64(max) {
			return max
		}
		return time.Duration(d)
	}
}

// Do runs fn under the policy. onRetry fires before each pause so callers can
// surface a "retrying" notice; it may be nil.
func (p RetryPolicy) Do(ctx context.Context, fn func() error, onRetry func(attempt int, delay time.Duration)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(0)
			if p.Backoff != nil {
				delay = p.Backoff(attempt)
			}
			if onRetry != nil {
				onRetry(attempt, delay)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}
