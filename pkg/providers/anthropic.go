package providers

import (
	"context"
	"errors"
	"strconv"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// MessagesClient is the subset of the Anthropic SDK used by the provider,
// satisfied by *sdk.MessageService and by mocks in tests.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Anthropic queries the Claude Messages API.
type Anthropic struct {
	cfg config.ProviderConfig
	msg MessagesClient
}

// NewAnthropic builds the provider from its configuration.
func NewAnthropic(cfg config.ProviderConfig) *Anthropic {
	client := sdk.NewClient(option.WithAPIKey(cfg.APIKey))

	return &Anthropic{cfg: cfg, msg: &client.Messages}
}

func (p *Anthropic) Name() string        { return "anthropic" }
func (p *Anthropic) DisplayName() string { return "Anthropic" }
func (p *Anthropic) IsConfigured() bool  { return p.cfg.APIKey != "" }

func (p *Anthropic) Query(ctx context.Context, prompt string) (*Response, error) {
	model := p.cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	maxTokens := p.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = sdk.Float(p.cfg.Temperature)
	}

	start := time.Now()

	msg, err := p.msg.New(ctx, params)
	if err != nil {
		return nil, p.wrapError(err)
	}

	var text string

	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	usage := &models.TokenUsage{
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}

	return &Response{
		Text:       text,
		Model:      string(msg.Model),
		Provider:   p.Name(),
		LatencyMS:  time.Since(start).Milliseconds(),
		TokenUsage: usage,
	}, nil
}

// wrapError translates SDK failures into the closed error taxonomy. Rate
// limit responses keep the server's retry-after hint when one is present.
func (p *Anthropic) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &errs.TimeoutError{Provider: p.Name()}
	}

	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == 429:
			return &errs.RateLimitError{
				Provider:   p.Name(),
				RetryAfter: retryAfterHint(apierr),
				Err:        err,
			}
		case apierr.StatusCode == 400 || apierr.StatusCode == 401 || apierr.StatusCode == 403:
			return &errs.ProviderError{Provider: p.Name(), StatusCode: apierr.StatusCode, Fatal: true, Err: err}
		default:
			return &errs.ProviderError{Provider: p.Name(), StatusCode: apierr.StatusCode, Err: err}
		}
	}

	return errs.NewProviderError(p.Name(), err)
}

func retryAfterHint(apierr *sdk.Error) time.Duration {
	if apierr.Response == nil {
		return 0
	}

	raw := apierr.Response.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}

	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}
