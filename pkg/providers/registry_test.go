package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

func TestCreateKnownProviders(t *testing.T) {
	tests := []struct {
		name    string
		display string
	}{
		{name: "openai", display: "OpenAI"},
		{name: "anthropic", display: "Anthropic"},
		{name: "perplexity", display: "Perplexity"},
		{name: "chatgpt", display: "ChatGPT"},
		{name: "deepseek", display: "DeepSeek"},
		{name: "grok", display: "Grok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Create(tt.name, config.ProviderConfig{Name: tt.name, APIKey: "test-key"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name())
			assert.Equal(t, tt.display, p.DisplayName())
			assert.True(t, p.IsConfigured())
		})
	}
}

func TestCreateUnknownProvider(t *testing.T) {
	_, err := Create("palantir", config.ProviderConfig{})
	require.Error(t, err)

	var ce *errs.ConfigError

	assert.ErrorAs(t, err, &ce)
}

func TestIsConfiguredRequiresAPIKey(t *testing.T) {
	p, err := Create("openai", config.ProviderConfig{Name: "openai"})
	require.NoError(t, err)
	assert.False(t, p.IsConfigured())
}

func TestRegistryEnabledIsSortedAndFiltered(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("openai", config.ProviderConfig{Name: "openai", APIKey: "k1"}))
	require.NoError(t, r.Register("anthropic", config.ProviderConfig{Name: "anthropic", APIKey: "k2"}))
	require.NoError(t, r.Register("perplexity", config.ProviderConfig{Name: "perplexity"})) // no key

	enabled := r.Enabled()
	require.Len(t, enabled, 2)
	assert.Equal(t, "anthropic", enabled[0].Name())
	assert.Equal(t, "openai", enabled[1].Name())

	assert.Equal(t, []string{"anthropic", "openai", "perplexity"}, r.Names())
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("openai", config.ProviderConfig{Name: "openai", APIKey: "k"}))

	p, err := r.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = r.Get("anthropic")
	assert.Error(t, err)
}
