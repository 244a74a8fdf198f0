// Package config loads the optional YAML configuration file and applies
// environment overrides. Every knob has a compiled-in default; the tool runs
// with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the compiled-in marketplace API base URL, overridable
// via config file or the PARAS_URL environment variable.
const DefaultBaseURL = "https://api-v2-mainnet.paras.id"

// EnvBaseURL names the environment variable overriding the base URL.
const EnvBaseURL = "PARAS_URL"

// EnvConfig names the environment variable pointing at a config file.
const EnvConfig = "QPARAS_CONFIG"

// Config holds the tool configuration.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Limit          int           `yaml:"limit"`
	TLSSkipVerify  bool          `yaml:"tls_skip_verify,omitempty"`
	Retry          RetryConfig   `yaml:"retry"`
	Auth           AuthConfig    `yaml:"auth"`
	Logging        LoggingConfig `yaml:"logging"`
}

// RetryConfig holds settings for transport retry logic. The default is a
// single attempt: a failed request fails the whole run.
type RetryConfig struct {
	MaxAttempts   int   `yaml:"max_attempts"`
	Backoff       int   `yaml:"backoff_seconds"`
	ExcludeErrors []int `yaml:"exclude_errors"`
}

// AuthConfig selects how requests authenticate. The marketplace API is
// anonymous, so the default type is "none".
type AuthConfig struct {
	Type        string            `yaml:"type"`
	Credentials map[string]string `yaml:"credentials"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a configuration with every compiled-in default applied.
func Default() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: 30,
		Limit:          30,
		Retry:          RetryConfig{MaxAttempts: 1, Backoff: 1},
		Auth:           AuthConfig{Type: "none"},
		Logging:        LoggingConfig{Level: "warn"},
	}
}

// Load builds the effective configuration. filename may be empty, in which
// case QPARAS_CONFIG is consulted; a missing file is only an error when it
// was named explicitly. PARAS_URL always wins over the file's base_url.
func Load(filename string) (*Config, error) {
	explicit := filename != ""
	if filename == "" {
		filename = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if filename != "" {
		fileBytes, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(fileBytes, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML in %q: %w", filename, err)
			}
		case os.IsNotExist(err) && !explicit:
			// Env-pointed file that does not exist: run on defaults.
		default:
			return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
		}
	}

	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	applyFloors(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFloors(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 30
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	if cfg.Retry.Backoff <= 0 {
		cfg.Retry.Backoff = 1
	}
	if cfg.Auth.Type == "" {
		cfg.Auth.Type = "none"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
}

func validate(cfg *Config) error {
	switch cfg.Auth.Type {
	case "none", "api_key", "bearer", "basic", "ntlm", "oauth2":
	default:
		return fmt.Errorf("unsupported auth type %q", cfg.Auth.Type)
	}
	for _, code := range cfg.Retry.ExcludeErrors {
		if code < 100 || code > 599 {
			return fmt.Errorf("retry.exclude_errors: %s is not an HTTP status code", strconv.Itoa(code))
		}
	}
	return nil
}
