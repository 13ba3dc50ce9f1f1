package storage

import (
	"context"
	"errors"
	"time"
)

// retryable marks an error that should trigger a retry.
type retryable struct{ err error }

func (e *retryable) Error() string { return e.err.Error() }
func (e *retryable) Unwrap() error { return e.err }

// Retryable wraps err so that withRetry tries again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryable{err: err}
}

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var r *retryable
	return errors.As(err, &r)
}

// retryDelay is the first backoff step. Tests shorten it.
var retryDelay = 200 * time.Millisecond

// withRetry runs fn up to 3 times with exponential backoff. Only errors
// wrapped with Retryable trigger another attempt; the returned error is
// unwrapped.
func withRetry(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var r *retryable
	if errors.As(lastErr, &r) {
		return r.err
	}
	return lastErr
}
