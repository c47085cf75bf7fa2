package llm

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	// MaxAttempts is the fixed cap on calls per Complete invocation.
	MaxAttempts int

	// Backoff is the base wait. The wait before retry k is Backoff * k
	// (linear-increasing), unless the provider asked for a specific
	// Retry-After.
	Backoff time.Duration

	// Timeout is the hard per-attempt deadline.
	Timeout time.Duration
}

// RetryProvider is a decorator that retries transient errors with a
// linear-increasing backoff and a hard per-attempt timeout. On exhaustion it
// returns a *ServiceError carrying the last failure cause, so call sites see
// a single error type at the service boundary.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		resp, err := r.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		attempts = attempt

		if !shouldRetry(err) {
			break
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, &ServiceError{Attempts: attempt, Err: ctx.Err()}
		case <-time.After(r.wait(attempt, err)):
		}
	}

	return nil, &ServiceError{Attempts: attempts, Err: lastErr}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// attempt runs a single call under the per-attempt timeout.
func (r *RetryProvider) attempt(ctx context.Context, req Request) (*Response, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	return r.inner.Complete(ctx, req)
}

// shouldRetry determines whether another attempt could help.
func shouldRetry(err error) bool {
	// Cancellation by the caller is never recoverable. DeadlineExceeded is
	// retryable: it usually means a single attempt hit its own timeout, and
	// the select on ctx.Done catches the case where the caller's deadline
	// is the one that expired.
	if errors.Is(err, context.Canceled) {
		return false
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return true
	}
	var empty *ErrEmptyResponse
	if errors.As(err, &empty) {
		return true
	}

	// Other errors (network, decode) are treated as transient.
	return true
}

// wait computes the pause before the next attempt.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return r.config.Backoff * time.Duration(attempt)
}
