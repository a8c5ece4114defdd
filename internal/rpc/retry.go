package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// #region constants

const (
	maxRetries   = 2 // max 2 retries = 3 total attempts
	retryBackoff = 100 * time.Millisecond
)

// #endregion

// #region should-retry

// shouldRetry reports whether a failed call may be repeated. Only transient
// transport conditions qualify; anything the server decided is final.
func shouldRetry(err error, attempt int) bool {
	if attempt >= maxRetries {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}

// #endregion

// #region invoke

// withRetry runs call, repeating it with doubling backoff while shouldRetry
// allows and ctx is live. The last error is returned unwrapped.
func withRetry(ctx context.Context, call func() error) error {
	wait := retryBackoff
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil || !shouldRetry(err, attempt) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// #endregion
