package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds retries of an idempotent operation. Delays grow
// exponentially from InitialInterval up to MaxInterval unless the error
// carries a provider-requested delay, which is used instead (capped at
// MaxRetryAfter).
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetryAfter   time.Duration

	// Retryable decides whether err may be retried. Nil means never.
	Retryable func(err error) bool
	// RetryAfter extracts a provider-requested delay from err, or 0.
	RetryAfter func(err error) time.Duration
	// OnRetry is called before sleeping ahead of attempt number attempt+1.
	OnRetry func(attempt int, delay time.Duration, err error)
}

const (
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 5 * time.Second
	defaultMaxRetryAfter        = 30 * time.Second
)

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	if b.InitialInterval <= 0 {
		b.InitialInterval = defaultRetryInitialInterval
	}
	b.MaxInterval = p.MaxInterval
	if b.MaxInterval <= 0 {
		b.MaxInterval = defaultRetryMaxInterval
	}
	b.Reset()
	return b
}

func (p RetryPolicy) delay(b *backoff.ExponentialBackOff, err error) time.Duration {
	next := b.NextBackOff()
	if p.RetryAfter == nil {
		return next
	}
	requested := p.RetryAfter(err)
	if requested <= 0 {
		return next
	}
	limit := p.MaxRetryAfter
	if limit <= 0 {
		limit = defaultMaxRetryAfter
	}
	return min(requested, limit)
}

// Retry runs op until it succeeds, returns a non-retryable error, the
// attempts are exhausted, or ctx is done. The last error from op is returned
// as-is so callers can classify it, except when ctx ends during a wait: then
// the error wraps ctx.Err() and only mentions the last failure.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := max(policy.MaxAttempts, 1)
	b := policy.newBackOff()

	var result T
	var err error
	for attempt := 1; ; attempt++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= attempts || policy.Retryable == nil || !policy.Retryable(err) {
			return result, err
		}

		delay := policy.delay(b, err)
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
