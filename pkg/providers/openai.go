package providers

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

const defaultOpenAIModel = "gpt-4o-mini"

// ChatClient is the subset of the go-openai client used by the provider.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICompatible queries any chat-completions endpoint speaking the OpenAI
// wire format: OpenAI itself, Perplexity and OpenRouter (which fronts the
// chatgpt/gemini/claude/... model aliases).
type OpenAICompatible struct {
	cfg     config.ProviderConfig
	name    string
	display string
	model   string
	chat    ChatClient
}

// NewOpenAI builds the provider for api.openai.com.
func NewOpenAI(cfg config.ProviderConfig) *OpenAICompatible {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return newCompatible(cfg, "openai", "OpenAI", model, "")
}

// NewPerplexity builds the provider for the Perplexity API.
func NewPerplexity(cfg config.ProviderConfig) *OpenAICompatible {
	model := cfg.Model
	if model == "" {
		model = "sonar"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}

	return newCompatible(cfg, "perplexity", "Perplexity", model, baseURL)
}

// NewOpenRouter builds a provider for one OpenRouter model alias; name keeps
// the alias so results are partitioned per model, not per gateway.
func NewOpenRouter(cfg config.ProviderConfig, name, display, modelID string) *OpenAICompatible {
	if cfg.Model != "" {
		modelID = cfg.Model
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	return newCompatible(cfg, name, display, modelID, baseURL)
}

func newCompatible(cfg config.ProviderConfig, name, display, model, baseURL string) *OpenAICompatible {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAICompatible{
		cfg:     cfg,
		name:    name,
		display: display,
		model:   model,
		chat:    openai.NewClientWithConfig(clientCfg),
	}
}

func (p *OpenAICompatible) Name() string        { return p.name }
func (p *OpenAICompatible) DisplayName() string { return p.display }
func (p *OpenAICompatible) IsConfigured() bool  { return p.cfg.APIKey != "" }

func (p *OpenAICompatible) Query(ctx context.Context, prompt string) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if p.cfg.MaxTokens > 0 {
		req.MaxTokens = p.cfg.MaxTokens
	}

	if p.cfg.Temperature > 0 {
		req.Temperature = float32(p.cfg.Temperature)
	}

	start := time.Now()

	resp, err := p.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.wrapError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	usage := &models.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	return &Response{
		Text:       text,
		Model:      resp.Model,
		Provider:   p.name,
		LatencyMS:  time.Since(start).Milliseconds(),
		TokenUsage: usage,
	}, nil
}

func (p *OpenAICompatible) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &errs.TimeoutError{Provider: p.name}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &errs.RateLimitError{Provider: p.name, Err: err}
		case apiErr.HTTPStatusCode == 400 || apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &errs.ProviderError{Provider: p.name, StatusCode: apiErr.HTTPStatusCode, Fatal: true, Err: err}
		default:
			return &errs.ProviderError{Provider: p.name, StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
	}

	return errs.NewProviderError(p.name, err)
}
