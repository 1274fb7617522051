// Package errs defines the closed error taxonomy shared across the run
// pipeline: provider, rate-limit, timeout, pipeline, storage and config
// errors, each tagged with a Kind discriminant so handling sites can match
// exhaustively instead of relying on an open class hierarchy.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates the error variants.
type Kind string

const (
	KindProvider  Kind = "provider_error"
	KindRateLimit Kind = "rate_limit_error"
	KindTimeout   Kind = "timeout_error"
	KindPipeline  Kind = "pipeline_error"
	KindStorage   Kind = "storage_error"
	KindConfig    Kind = "config_error"
)

// ProviderError is a generic upstream provider failure. Fatal marks errors
// that must not be retried (bad request, invalid key).
type ProviderError struct {
	Provider   string
	StatusCode int
	Fatal      bool
	Err        error
}

func (e *ProviderError) Kind() Kind { return KindProvider }

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] provider error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("[%s] provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps an upstream failure with the provider name.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// RateLimitError is a provider rejection due to throttling. RetryAfter holds
// the provider's hint when one was supplied, zero otherwise.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Kind() Kind { return KindRateLimit }

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("[%s] rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
	}

	return fmt.Sprintf("[%s] rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// TimeoutError reports a provider call that exceeded its wall-clock budget.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *TimeoutError) Kind() Kind { return KindTimeout }

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("[%s] request timed out after %s", e.Provider, e.Timeout)
}

// PipelineError reports a stage failure. Always fatal to the run.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Kind() Kind { return KindPipeline }

func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// StorageError reports a persistence read/write failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Kind() Kind { return KindStorage }

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConfigError reports invalid or missing setup, fatal before any task runs.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Kind() Kind { return KindConfig }

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError from a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError

	return errors.As(err, &rl)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var to *TimeoutError

	return errors.As(err, &to)
}

// RetryAfter extracts the provider's retry-after hint, zero when absent.
func RetryAfter(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}

	return 0
}

// IsRetryable classifies err for the retry policy. Rate-limit and timeout
// errors are always transient; provider errors are transient unless marked
// fatal. Pipeline, storage and config errors never retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}

	var to *TimeoutError
	if errors.As(err, &to) {
		return true
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return !pe.Fatal
	}

	return false
}
