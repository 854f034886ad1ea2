// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry runs an operation under a bounded attempt policy with a
// configurable wait between attempts.
package retry

import (
	"context"
	"errors"
	"time"
)

// DelayFunc returns the wait after the given failed attempt (1-based).
type DelayFunc func(attempt int) time.Duration

// Linear waits step*attempt, capped at max: with step 10s and max 45s the
// waits are 10s, 20s, 30s, 40s, 45s, 45s.
func Linear(step, max time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		d := step * time.Duration(attempt)
		if d > max {
			return max
		}
		return d
	}
}

// Fixed waits d after every failed attempt.
func Fixed(d time.Duration) DelayFunc {
	return func(int) time.Duration { return d }
}

// Policy bounds how often an operation is attempted and how long to wait
// between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts. Values below 1 mean 1.
	MaxAttempts int

	// Delay computes the wait after a failed attempt. Nil means no wait.
	Delay DelayFunc

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, or the policy's
// attempts are used up. There is no wait after the final attempt. If ctx is
// cancelled during a wait Do returns ctx.Err(). Otherwise the error of the
// last attempt is returned unchanged (Permanent wrappers removed).
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Delay != nil {
			wait = p.Delay(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		if wait <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
