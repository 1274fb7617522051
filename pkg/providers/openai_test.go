package providers

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

type fakeChatClient struct {
	resp openai.ChatCompletionResponse
	err  error

	gotRequest openai.ChatCompletionRequest
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.gotRequest = req

	return f.resp, f.err
}

func newTestProvider(fake *fakeChatClient) *OpenAICompatible {
	p := NewOpenAI(config.ProviderConfig{
		Name:        "openai",
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		MaxTokens:   256,
		Temperature: 0.7,
	})
	p.chat = fake

	return p
}

func TestQueryTranslatesResponse(t *testing.T) {
	fake := &fakeChatClient{
		resp: openai.ChatCompletionResponse{
			Model: "gpt-4o-mini-2024-07-18",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "Acme is great."}},
			},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17},
		},
	}
	p := newTestProvider(fake)

	resp, err := p.Query(context.Background(), "tell me about Acme")
	require.NoError(t, err)

	assert.Equal(t, "Acme is great.", resp.Text)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)
	assert.Equal(t, "openai", resp.Provider)
	require.NotNil(t, resp.TokenUsage)
	assert.Equal(t, 17, resp.TokenUsage.TotalTokens)

	assert.Equal(t, "gpt-4o-mini", fake.gotRequest.Model)
	assert.Equal(t, 256, fake.gotRequest.MaxTokens)
	require.Len(t, fake.gotRequest.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.gotRequest.Messages[0].Role)
}

func TestQueryMapsRateLimitError(t *testing.T) {
	fake := &fakeChatClient{err: &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}}
	p := newTestProvider(fake)

	_, err := p.Query(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errs.IsRateLimit(err))
	assert.True(t, errs.IsRetryable(err))
}

func TestQueryMapsFatalStatusCodes(t *testing.T) {
	for _, code := range []int{400, 401, 403} {
		fake := &fakeChatClient{err: &openai.APIError{HTTPStatusCode: code, Message: "nope"}}
		p := newTestProvider(fake)

		_, err := p.Query(context.Background(), "hi")
		require.Error(t, err)
		assert.False(t, errs.IsRetryable(err), "status %d should be fatal", code)
	}
}

func TestQueryMapsServerErrorAsTransient(t *testing.T) {
	fake := &fakeChatClient{err: &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}}
	p := newTestProvider(fake)

	_, err := p.Query(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errs.IsRetryable(err))
	assert.False(t, errs.IsRateLimit(err))
}

func TestQueryMapsDeadlineToTimeout(t *testing.T) {
	fake := &fakeChatClient{err: context.DeadlineExceeded}
	p := newTestProvider(fake)

	_, err := p.Query(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err))
}

func TestQueryWrapsUnknownErrors(t *testing.T) {
	fake := &fakeChatClient{err: errors.New("connection reset")}
	p := newTestProvider(fake)

	_, err := p.Query(context.Background(), "hi")
	require.Error(t, err)

	var pe *errs.ProviderError

	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "openai", pe.Provider)
	assert.True(t, errs.IsRetryable(err))
}
