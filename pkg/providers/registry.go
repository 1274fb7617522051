package providers

import (
	"sort"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/config"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

// openRouterModels maps provider alias → (OpenRouter model ID, display name).
var openRouterModels = map[string][2]string{
	"chatgpt":       {"openai/gpt-5-mini", "ChatGPT"},
	"gemini":        {"google/gemini-3-flash-preview", "Gemini"},
	"claude":        {"anthropic/claude-sonnet-4.5", "Claude"},
	"perplexity-or": {"perplexity/sonar-pro", "Perplexity"},
	"deepseek":      {"deepseek/deepseek-v3.2", "DeepSeek"},
	"grok":          {"x-ai/grok-3", "Grok"},
	"llama":         {"meta-llama/llama-4-maverick", "Llama"},
	"mistral":       {"mistralai/mistral-large-2512", "Mistral"},
}

// Create builds the provider registered under name.
func Create(name string, cfg config.ProviderConfig) (Provider, error) {
	switch name {
	case "openai":
		return NewOpenAI(cfg), nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "perplexity":
		return NewPerplexity(cfg), nil
	}

	if entry, ok := openRouterModels[name]; ok {
		return NewOpenRouter(cfg, name, entry[1], entry[0]), nil
	}

	return nil, errs.NewConfigError("unknown provider: %s", name)
}

// Known lists every provider name the factory can build, sorted.
func Known() []string {
	names := []string{"openai", "anthropic", "perplexity"}
	for name := range openRouterModels {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Registry holds the instantiated providers for one run.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register instantiates and stores the named provider.
func (r *Registry) Register(name string, cfg config.ProviderConfig) error {
	p, err := Create(name, cfg)
	if err != nil {
		return err
	}

	r.providers[name] = p

	return nil
}

// Add stores an already-built provider under its own name.
func (r *Registry) Add(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns one registered provider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, errs.NewConfigError("provider not registered: %s", name)
	}

	return p, nil
}

// Enabled returns the configured providers in deterministic name order.
func (r *Registry) Enabled() []Provider {
	names := make([]string, 0, len(r.providers))

	for name, p := range r.providers {
		if p.IsConfigured() {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	enabled := make([]Provider, 0, len(names))
	for _, name := range names {
		enabled = append(enabled, r.providers[name])
	}

	return enabled
}

// Names lists every registered provider name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
