package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment keys read at startup.
const (
	EnvBaseURL = "API_BASE_URL"
	EnvAPIKey  = "OPENROUTER_API_KEY"
	EnvModel   = "OPENROUTER_MODEL_NAME"
)

const (
	DefaultBaseURL     = "http://localhost:8002"
	DefaultEndpoint    = "https://openrouter.ai/api/v1"
	DefaultModel       = "nvidia/llama-3.1-nemotron-ultra-253b-v1:free"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// ErrMissingAPIKey is returned by Validate when no credential is configured.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " is not set in environment variables")

// Config holds all runtime configuration for the dispatcher.
type Config struct {
	// BaseURL is loaded for parity with the local API server; dispatch does not use it.
	BaseURL  string
	Endpoint string
	APIKey   string

	Model       string
	MaxTokens   int64
	Temperature float64

	Verbose bool
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Endpoint:    DefaultEndpoint,
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return cfg
}

// Validate reports the first problem that must stop the process before any request.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", cfg.Temperature)
	}
	return nil
}

// ApplyEnv overlays environment values onto cfg. Unset optional keys leave
// cfg untouched; the credential always comes from the environment.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvModel)); v != "" {
		cfg.Model = v
	}
	cfg.APIKey = strings.TrimSpace(getenv(EnvAPIKey))
	return cfg
}

// fileConfig mirrors the YAML config file. Pointers distinguish an explicit
// zero (temperature: 0) from an absent key.
type fileConfig struct {
	BaseURL     *string  `yaml:"base_url"`
	Model       *string  `yaml:"model"`
	MaxTokens   *int64   `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Verbose     *bool    `yaml:"verbose"`
}

// LoadFile overlays the YAML file at path onto cfg.
// The credential is never read from the file.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return parseFile(data, cfg)
}

func parseFile(data []byte, cfg Config) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.MaxTokens != nil {
		if *fc.MaxTokens <= 0 {
			return cfg, fmt.Errorf("parse config: max_tokens must be positive, got %d", *fc.MaxTokens)
		}
		cfg.MaxTokens = *fc.MaxTokens
	}
	if fc.Temperature != nil {
		cfg.Temperature = *fc.Temperature
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return cfg, nil
}
