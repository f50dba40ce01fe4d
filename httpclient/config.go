package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxErrorBody = 64 * 1024
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds buffered requests. Streams are bounded by the
	// request context only. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Key is attached to every request unless the request carries its own.
	Key *APIKey `yaml:"-" mapstructure:"-"`

	// MaxErrorBody caps how much of an error response body is kept.
	MaxErrorBody int64 `yaml:"max_error_body" mapstructure:"max_error_body"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxErrorBody <= 0 {
		c.MaxErrorBody = defaultMaxErrorBody
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base_url %q", c.BaseURL)
		}
	}
	return nil
}
