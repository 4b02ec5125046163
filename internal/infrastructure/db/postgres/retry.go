package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"filelink-api/internal/domain"
)

const MaxAttempts = 3

var (
	initialInterval = 50 * time.Millisecond
	maxInterval     = 500 * time.Millisecond
)

// Read runs op under the caller's context with a per-attempt timeout,
// retrying transient failures.
func Read(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	return run(ctx, timeout, op)
}

// Write is Read detached from caller cancellation: once started, a mutation
// runs to completion or to its own timeout.
func Write(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	return run(context.WithoutCancel(ctx), timeout, op)
}

func run(ctx context.Context, timeout time.Duration, op func(ctx context.Context) error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initialInterval
	eb.MaxInterval = maxInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, MaxAttempts-1), ctx)

	err := backoff.Retry(func() error {
		actx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		err := op(actx)
		if err == nil || IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)

	if IsTransient(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
