package retry

import (
	"context"
	"errors"
	"time"
)

var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function returns when to retry.
//
// If context is canceled, Backoff should return ctx.Err().
// Returning non-nil error stops retrying.
type Backoff func(context.Context) error

// ExponentialBackoff waits initial, then multiplies the interval by r
// for each call, up to max.
func ExponentialBackoff(initial time.Duration, r float64, max time.Duration) Backoff {
	interval := initial
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			if max < interval {
				interval = max
			}
			return nil
		}
	}
}

// ErrTooManyAttempts is returned from Backoff made by Limit after it is exhausted.
var ErrTooManyAttempts = errors.New("too many attempts")

// Limit lets b be called n times at most.
func Limit(n int, b Backoff) Backoff {
	count := 0
	return func(ctx context.Context) error {
		if n <= count {
			return ErrTooManyAttempts
		}
		count += 1
		return b(ctx)
	}
}

// Blocking calls f until it returns nil or non-retry error.
//
// f is called at once, and after each backoff while it returns an error wrapping ErrRetry.
//
// # Returns
//
// - T: last return value of f
//
// - error: error returned by f, joined with the error from backoff when it gives up.
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	for {
		last, err := f()
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, errors.Join(err, berr)
		}
	}
}
