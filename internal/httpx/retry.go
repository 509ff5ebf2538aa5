package httpx

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy configures attempt count and exponential backoff for the client.
// Attempts is the total number of tries; a zero or negative value means a
// single attempt with no retry, which is the default expected by the
// authenticator and resolver.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// NoRetry is the policy used when the caller wants exactly one attempt.
var NoRetry = RetryPolicy{Attempts: 1}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 300 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 2 * time.Second
	}
	return p
}

// retryOperation executes fn until success, context cancellation, or the
// policy's attempts are exhausted. Non-retryable failures should be wrapped in
// permanentError by fn so the loop stops early.
func retryOperation[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	policy = policy.withDefaults()
	var zero T
	var lastErr error

	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if _, ok := err.(*permanentError); ok {
			break
		}
		if attempt >= policy.Attempts-1 {
			break
		}

		delay := backoffWithJitter(policy, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	if lastErr == nil {
		return zero, fmt.Errorf("retry failed without error")
	}
	return zero, lastErr
}

func backoffWithJitter(policy RetryPolicy, attempt int) time.Duration {
	d := policy.BaseDelay * (1 << attempt)
	if d > policy.MaxDelay {
		d = policy.MaxDelay
	}
	j := time.Duration(rand.Int63n(int64(d/4 + 1)))
	return d + j
}
