package main

import (
	"fmt"
	"time"

	"github.com/kbukum/webgen/auth"
	"github.com/kbukum/webgen/config"
	"github.com/kbukum/webgen/intent"
	"github.com/kbukum/webgen/llm"
	"github.com/kbukum/webgen/observability"
	"github.com/kbukum/webgen/relay"
	"github.com/kbukum/webgen/server"
)

const serviceName = "webgen"

// AppConfig is the full configuration of both commands.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Upstream      llm.Config           `yaml:"upstream" mapstructure:"upstream"`
	Intent        intent.Config        `yaml:"intent" mapstructure:"intent"`
	Relay         relay.Config         `yaml:"relay" mapstructure:"relay"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
}

func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Upstream.ApplyDefaults()
	c.Intent.ApplyDefaults()
	c.Relay.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Upstream.Validate(); err != nil {
		return err
	}
	if err := c.Intent.Validate(); err != nil {
		return err
	}
	if err := c.Relay.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// loadConfig reads config.yml, the .env file and the environment. Keys with
// a default here can be overridden by their upper-cased variable, e.g.
// RELAY_MODE=streamed.
func loadConfig(opts ...config.LoaderOption) (*AppConfig, error) {
	base := []config.LoaderOption{
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),

		config.WithDefault("name", serviceName),
		config.WithDefault("environment", "development"),
		config.WithDefault("logging.level", "info"),
		config.WithDefault("logging.format", "console"),

		config.WithDefault("server.host", ""),
		config.WithDefault("server.port", 3000),
		config.WithDefault("server.write_timeout", 0),
		config.WithDefault("server.max_body_size", "10MB"),

		config.WithDefault("upstream.dialect", llm.DefaultDialect),
		config.WithDefault("upstream.base_url", llm.DefaultBaseURL),
		config.WithDefault("upstream.model", llm.DefaultModel),
		config.WithDefault("upstream.timeout", 120*time.Second),
		config.WithDefault("upstream.api_key_env", llm.DefaultAPIKeyEnv),

		config.WithDefault("intent.granularity", string(intent.Ternary)),
		config.WithDefault("intent.disable_instructions", false),
		config.WithDefault("intent.fold_punctuation", false),

		config.WithDefault("relay.mode", string(relay.ModeBuffered)),
		config.WithDefault("relay.stream_format", string(relay.FormatRaw)),
		config.WithDefault("relay.empty_generation_text", relay.DefaultEmptyText),
		config.WithDefault("relay.empty_code_text", relay.DefaultEmptyCode),

		config.WithDefault("observability.enabled", false),
		config.WithDefault("observability.endpoint", "localhost:4318"),
		config.WithDefault("observability.insecure", true),

		config.WithDefault("auth.port", auth.DefaultPort),
		config.WithDefault("auth.jwt.secret", ""),
		config.WithDefault("auth.jwt.ttl", time.Hour),
		config.WithDefault("auth.password.bcrypt_cost", 10),

		config.WithEnvAlias("PORT", "server.port"),
		config.WithEnvAlias("JWT_SECRET", "auth.jwt.secret"),
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, append(base, opts...)...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
