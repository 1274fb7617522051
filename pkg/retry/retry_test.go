package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

func transientErr() error {
	return errs.NewProviderError("test", errors.New("upstream 503"))
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	calls := 0
	retryCalls := 0

	p := Policy{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		OnRetry: func(attempt, remaining int, err error) {
			retryCalls++

			assert.Equal(t, retryCalls, attempt)
			assert.Equal(t, 4-attempt, remaining)
			assert.Error(t, err)
		},
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls <= 2 {
			return transientErr()
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// Failure callback fires exactly k times for k failures before success.
	assert.Equal(t, 2, retryCalls)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++

		return transientErr()
	})

	require.Error(t, err)
	// Initial attempt + MaxRetries retries.
	assert.Equal(t, 4, calls)

	var pe *errs.ProviderError

	assert.ErrorAs(t, err, &pe)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := &errs.ProviderError{Provider: "test", StatusCode: 401, Fatal: true, Err: errors.New("invalid key")}
	p := Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++

		return fatal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoBacksOffExponentially(t *testing.T) {
	p := Policy{MaxRetries: 2, BaseDelay: 20 * time.Millisecond}

	start := time.Now()
	err := p.Do(context.Background(), func(context.Context) error {
		return transientErr()
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// Waits 20ms then 40ms between the three attempts.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestDelayPrefersLargerRetryAfterHint(t *testing.T) {
	p := Policy{MaxRetries: 1, BaseDelay: 10 * time.Millisecond}

	hinted := &errs.RateLimitError{Provider: "test", RetryAfter: 50 * time.Millisecond, Err: errors.New("429")}
	assert.Equal(t, 50*time.Millisecond, p.delay(1, hinted))

	// A hint below the computed backoff is non-binding.
	small := &errs.RateLimitError{Provider: "test", RetryAfter: time.Millisecond, Err: errors.New("429")}
	assert.Equal(t, 10*time.Millisecond, p.delay(1, small))
}

func TestDoHonorsContextDuringBackoff(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Minute}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)

	defer cancel()

	calls := 0

	err := p.Do(ctx, func(context.Context) error {
		calls++

		return transientErr()
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestJitterStaysWithinBounds(t *testing.T) {
	p := Policy{MaxRetries: 1, BaseDelay: 100 * time.Millisecond, Jitter: 0.2}

	for i := 0; i < 50; i++ {
		d := p.delay(1, transientErr())
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}
