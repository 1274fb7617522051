package config

// EnvKeyMap maps provider names to the environment variable holding their
// API key. OpenRouter-backed aliases all share OPENROUTER_API_KEY.
var EnvKeyMap = map[string]string{
	"openai":        "OPENAI_API_KEY",
	"anthropic":     "ANTHROPIC_API_KEY",
	"perplexity":    "PERPLEXITY_API_KEY",
	"openrouter":    "OPENROUTER_API_KEY",
	"chatgpt":       "OPENROUTER_API_KEY",
	"gemini":        "OPENROUTER_API_KEY",
	"claude":        "OPENROUTER_API_KEY",
	"perplexity-or": "OPENROUTER_API_KEY",
	"deepseek":      "OPENROUTER_API_KEY",
	"grok":          "OPENROUTER_API_KEY",
	"llama":         "OPENROUTER_API_KEY",
	"mistral":       "OPENROUTER_API_KEY",
}

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Default builds the baseline configuration before env, file and CLI
// overrides are applied.
func Default() *Config {
	providers := map[string]ProviderConfig{
		"openai": {
			Name:        "openai",
			Enabled:     true,
			Model:       "gpt-4o-mini",
			MaxTokens:   512,
			Temperature: 0.7,
		},
		"anthropic": {
			Name:        "anthropic",
			Enabled:     true,
			Model:       "claude-haiku-4-5-20251001",
			MaxTokens:   512,
			Temperature: 0.7,
		},
		"perplexity": {
			Name:        "perplexity",
			Enabled:     true,
			Model:       "sonar",
			MaxTokens:   512,
			Temperature: 0.7,
			BaseURL:     "https://api.perplexity.ai",
		},
	}

	for _, alias := range []string{"chatgpt", "gemini", "claude", "perplexity-or", "deepseek", "grok", "llama", "mistral"} {
		providers[alias] = ProviderConfig{
			Name:        alias,
			Enabled:     true,
			MaxTokens:   512,
			Temperature: 0.7,
			BaseURL:     openRouterBaseURL,
		}
	}

	return &Config{
		Providers: providers,
		Processing: ProcessingConfig{
			Provider:  "anthropic",
			Model:     "claude-opus-4-6",
			MaxTokens: 4096,
		},
		Execution: ExecutionConfig{
			Concurrency:  10,
			Retries:      3,
			RetryDelayMS: 1000,
			TimeoutMS:    30000,
			Iterations:   1,
		},
		Queries: QueryConfig{
			Count:      20,
			Strategies: []string{"keyword", "persona", "intent"},
		},
		Report: ReportConfig{
			Formats: []string{"json", "markdown"},
		},
		OutputDir: "./data/runs",
		LogLevel:  "info",
	}
}
