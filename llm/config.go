package llm

import (
	"fmt"
	"time"
)

const (
	DefaultDialect     = "gemini"
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-2.5-flash-preview-05-20"
	DefaultAPIKeyParam = "key"
	DefaultAPIKeyEnv   = "GEMINI_API_KEY"

	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the upstream adapter.
type Config struct {
	// Dialect selects the provider mapping. Must match a registered dialect.
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the model every request is sent to.
	Model string `yaml:"model" mapstructure:"model"`

	// Timeout bounds buffered calls. Streams are bounded by the caller.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// APIKeyParam is the query parameter carrying the credential.
	APIKeyParam string `yaml:"api_key_param" mapstructure:"api_key_param"`

	// APIKeyHeader, when set, sends the credential in this header instead
	// of the query string (Gemini accepts x-goog-api-key).
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`

	// APIKeyEnv names the environment variable holding the credential.
	// It is read on every request, never cached.
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults sets default values for unset config fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.APIKeyParam == "" {
		c.APIKeyParam = DefaultAPIKeyParam
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("upstream.model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	return nil
}
