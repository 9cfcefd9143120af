// Package resilience bounds and retries calls to external providers.
// The zero Policy calls the operation once with no deadline.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy configures a single provider call
type Policy struct {
	// Timeout bounds each attempt. Zero means no deadline.
	Timeout time.Duration
	// RetryAttempts is the number of extra attempts after the first failure.
	RetryAttempts int
	// RetryInitialInterval is the first backoff delay. Zero uses the backoff default.
	RetryInitialInterval time.Duration
}

// TimeoutError reports an attempt that ran past Policy.Timeout
type TimeoutError struct {
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s: %v", e.After, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by an expired attempt deadline
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Do runs op under p. Cancellation of ctx is never retried.
func Do[T any](ctx context.Context, p Policy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	call := func() (T, error) {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if p.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		defer cancel()

		v, err := op(callCtx)
		if err != nil && ctx.Err() == nil && p.Timeout > 0 && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = &TimeoutError{After: p.Timeout, Err: err}
		}
		return v, err
	}

	if p.RetryAttempts <= 0 {
		return call()
	}

	b := backoff.NewExponentialBackOff()
	if p.RetryInitialInterval > 0 {
		b.InitialInterval = p.RetryInitialInterval
	}

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := call()
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return v, backoff.Permanent(err)
		}
		log.Printf("[WARN] %s attempt %d/%d failed: %v", name, attempt, p.RetryAttempts+1, err)
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(p.RetryAttempts+1)))
}
