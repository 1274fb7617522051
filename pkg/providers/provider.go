// Package providers implements the AI provider clients the execution engine
// queries, plus a registry keyed by provider name. Anthropic uses the
// official SDK; OpenAI, Perplexity and the OpenRouter model aliases share an
// OpenAI-compatible chat completions client.
package providers

import (
	"context"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

// Response is the outcome of one successful provider query.
type Response struct {
	Text       string
	Model      string
	Provider   string
	LatencyMS  int64
	TokenUsage *models.TokenUsage
}

// Provider is the capability consumed by the task executor. Query returns a
// *Response or one of the errs taxonomy errors (provider, rate-limit,
// timeout). IsConfigured gates participation in task generation.
type Provider interface {
	Name() string
	DisplayName() string
	IsConfigured() bool
	Query(ctx context.Context, prompt string) (*Response, error)
}
