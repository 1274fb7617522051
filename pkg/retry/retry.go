// Package retry executes a unit of work with bounded retries and jittered
// exponential backoff. Rate-limit errors carrying a retry-after hint wait
// max(hint, computed backoff); the hint never shortens the backoff, only
// extends it.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

// Policy configures the retry loop.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt, so a
	// unit of work runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseDelay is the wait before the first retry; retry k waits
	// BaseDelay * 2^(k-1), plus jitter.
	BaseDelay time.Duration

	// Jitter is the fraction of the computed delay randomized on top of it
	// (0.2 means up to +20%). Zero disables jitter.
	Jitter float64

	// OnRetry, when set, fires after each failed attempt that will be
	// retried, with the attempt number (1-based), retries remaining and the
	// error. Advisory only.
	OnRetry func(attempt, remaining int, err error)
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// retry budget is exhausted. The last error is returned, never swallowed.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxRetries+1; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !errs.IsRetryable(lastErr) {
			return lastErr
		}

		remaining := p.MaxRetries + 1 - attempt
		if remaining == 0 {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, remaining, lastErr)
		}

		if err := sleep(ctx, p.delay(attempt, lastErr)); err != nil {
			return lastErr
		}
	}

	return lastErr
}

// delay computes the wait before the retry following the given attempt.
func (p Policy) delay(attempt int, err error) time.Duration {
	d := p.BaseDelay << (attempt - 1)

	if p.Jitter > 0 {
		d += time.Duration(rand.Float64() * p.Jitter * float64(d))
	}

	// A provider retry-after hint extends the wait but never shortens it.
	if hint := errs.RetryAfter(err); hint > d {
		d = hint
	}

	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
