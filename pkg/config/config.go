// Package config defines run configuration and its loading rules: defaults,
// then environment (.env supported), then an optional JSON or YAML config
// file, then caller overrides.
package config

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

// ProviderConfig configures one AI provider.
type ProviderConfig struct {
	Name         string  `json:"name"           yaml:"name"`
	Enabled      bool    `json:"enabled"        yaml:"enabled"`
	APIKey       string  `json:"api_key"        yaml:"api_key"`
	Model        string  `json:"model"          yaml:"model"`
	BaseURL      string  `json:"base_url"       yaml:"base_url"`
	MaxTokens    int     `json:"max_tokens"     yaml:"max_tokens"     validate:"gte=0"`
	Temperature  float64 `json:"temperature"    yaml:"temperature"    validate:"gte=0,lte=2"`
	RateLimitRPM int     `json:"rate_limit_rpm" yaml:"rate_limit_rpm" validate:"gte=0"`
}

// ExecutionConfig bounds the concurrent batch execution.
type ExecutionConfig struct {
	Concurrency  int `json:"concurrency"    yaml:"concurrency"    validate:"required,gte=1"`
	Retries      int `json:"retries"        yaml:"retries"        validate:"gte=0"`
	RetryDelayMS int `json:"retry_delay_ms" yaml:"retry_delay_ms" validate:"gte=0"`
	TimeoutMS    int `json:"timeout_ms"     yaml:"timeout_ms"     validate:"required,gte=1000"`
	Iterations   int `json:"iterations"     yaml:"iterations"     validate:"required,gte=1"`
}

// QueryConfig controls query generation.
type QueryConfig struct {
	Count      int      `json:"count"      yaml:"count"      validate:"required,gte=1"`
	Strategies []string `json:"strategies" yaml:"strategies" validate:"required,min=1,dive,oneof=keyword persona competitor intent"`
}

// ProcessingConfig selects the dedicated model for non-execution LLM calls
// (research, query generation).
type ProcessingConfig struct {
	Provider  string `json:"provider"   yaml:"provider" validate:"required"`
	Model     string `json:"model"      yaml:"model"`
	APIKey    string `json:"api_key"    yaml:"api_key"`
	BaseURL   string `json:"base_url"   yaml:"base_url"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	Formats []string `json:"formats" yaml:"formats" validate:"required,min=1,dive,oneof=json csv markdown"`
}

// Config is the full run configuration.
type Config struct {
	Brand       string                    `json:"brand"       yaml:"brand"`
	Website     string                    `json:"website"     yaml:"website"`
	Competitors []string                  `json:"competitors" yaml:"competitors"`
	Providers   map[string]ProviderConfig `json:"providers"   yaml:"providers"`
	Processing  ProcessingConfig          `json:"processing"  yaml:"processing"`
	Execution   ExecutionConfig           `json:"execution"   yaml:"execution"`
	Queries     QueryConfig               `json:"queries"     yaml:"queries"`
	Report      ReportConfig              `json:"report"      yaml:"report"`
	OutputDir   string                    `json:"output_dir"  yaml:"output_dir" validate:"required"`
	LogLevel    string                    `json:"log_level"   yaml:"log_level"  validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints. Provider API keys are not required
// here: providers without a key are simply not enabled for execution.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &errs.ConfigError{Err: err}
	}

	return nil
}

// EnabledProviders returns the names of providers that may participate in
// task generation, in deterministic (sorted) order.
func (c *Config) EnabledProviders() []string {
	names := make([]string, 0, len(c.Providers))

	for name, pc := range c.Providers {
		if pc.Enabled && pc.APIKey != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}
