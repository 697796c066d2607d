// Package retry runs store reads under a per-attempt timeout with a bounded
// number of fixed-backoff retries.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried call.
type Policy struct {
	Timeout time.Duration // per attempt, zero means no extra deadline
	Retries int           // attempts after the first
	Backoff time.Duration
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	retries := p.Retries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(retries)),
		ctx,
	)
}

// Do calls fn until it succeeds, returns one of the permanent errors, the
// parent context ends, or the retry budget is spent. The last error is
// returned unchanged so callers can match it with errors.Is.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), permanent ...error) (T, error) {
	var zero T

	result, err := backoff.RetryWithData(func() (T, error) {
		result, err := call(ctx, p.Timeout, fn)
		if err != nil && isPermanent(err, permanent) {
			return zero, backoff.Permanent(err)
		}
		return result, err
	}, p.backOff(ctx))
	if err != nil {
		return zero, err
	}
	return result, nil
}

func call[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}

func isPermanent(err error, permanent []error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	for _, p := range permanent {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}
