// Package ratelimit bounds the outbound request rate per provider with a
// token bucket. Each limiter grants at most rpm requests in any rolling
// 60-second window; waiters suspend until a token is available. First-come
// first-served ordering across waiters is not guaranteed.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates requests to a single provider.
type Limiter struct {
	limiter *rate.Limiter
}

// New builds a limiter allowing rpm requests per rolling 60-second window.
// Burst is 1 so dispatches are evenly spaced; with burst > 1 a fresh bucket
// could exceed rpm inside a single sliding window.
func New(rpm int) *Limiter {
	if rpm <= 0 {
		return nil
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// Wait blocks until a token is available or ctx is done. A nil receiver is an
// unthrottled limiter and returns immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	return l.limiter.Wait(ctx)
}

// Registry maps provider names to their limiters. Providers without a
// configured limit have no entry and are never throttled.
type Registry struct {
	limiters map[string]*Limiter
}

// NewRegistry builds a registry from per-provider rpm limits. Zero or
// negative limits are skipped.
func NewRegistry(limits map[string]int) *Registry {
	limiters := make(map[string]*Limiter, len(limits))

	for name, rpm := range limits {
		if rpm > 0 {
			limiters[name] = New(rpm)
		}
	}

	return &Registry{limiters: limiters}
}

// For returns the limiter for a provider, nil (unthrottled) when none is
// configured.
func (r *Registry) For(provider string) *Limiter {
	if r == nil {
		return nil
	}

	return r.limiters[provider]
}
