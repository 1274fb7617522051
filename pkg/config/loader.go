package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/errs"
)

// Load builds the effective configuration: defaults, then API keys from the
// environment (a .env file is honoured when present), then the optional
// config file at path (JSON or YAML, decided by extension).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	applyEnv(cfg)

	if path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	resolveProcessingKey(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	for name, pc := range cfg.Providers {
		envKey, ok := EnvKeyMap[name]
		if !ok {
			continue
		}

		if key := os.Getenv(envKey); key != "" && pc.APIKey == "" {
			pc.APIKey = key
			cfg.Providers[name] = pc
		}
	}

	if v := os.Getenv("PROCESSING_PROVIDER"); v != "" {
		cfg.Processing.Provider = v
	}

	if v := os.Getenv("PROCESSING_MODEL"); v != "" {
		cfg.Processing.Model = v
	}
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errs.ConfigError{Err: fmt.Errorf("read config file %s: %w", path, err)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}

	if err != nil {
		return &errs.ConfigError{Err: fmt.Errorf("parse config file %s: %w", path, err)}
	}

	return nil
}

// resolveProcessingKey fills the processing API key from the provider config
// or environment, falling back through providers that do have a key so a run
// can still do research and query generation.
func resolveProcessingKey(cfg *Config) {
	if cfg.Processing.APIKey != "" {
		return
	}

	if pc, ok := cfg.Providers[cfg.Processing.Provider]; ok && pc.APIKey != "" {
		cfg.Processing.APIKey = pc.APIKey

		return
	}

	if envKey, ok := EnvKeyMap[cfg.Processing.Provider]; ok {
		if key := os.Getenv(envKey); key != "" {
			cfg.Processing.APIKey = key

			return
		}
	}

	// Fallback chain mirrors execution provider preference.
	for _, name := range []string{"anthropic", "openai", "chatgpt"} {
		pc, ok := cfg.Providers[name]
		if !ok || pc.APIKey == "" {
			continue
		}

		if name != cfg.Processing.Provider {
			cfg.Processing.Provider = name
			cfg.Processing.Model = pc.Model
		}

		cfg.Processing.APIKey = pc.APIKey

		return
	}
}
