package auth

import (
	"fmt"

	"github.com/kbukum/webgen/auth/jwt"
	"github.com/kbukum/webgen/auth/password"
)

// DefaultJWTSecret is the development signing key used when none is set.
// Tokens signed with it can be forged by anyone who reads this file.
const DefaultJWTSecret = "supersecretkey"

// DefaultPort is the auth service's listen port.
const DefaultPort = 3001

// Config holds the auth service configuration.
type Config struct {
	// Port is the listen port. The host and timeouts follow the main server.
	Port int `yaml:"port" mapstructure:"port"`

	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`

	Password password.Config `yaml:"password" mapstructure:"password"`
}

// ApplyDefaults sets defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = DefaultJWTSecret
	}
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("auth.port must be between 1 and 65535 (got: %d)", c.Port)
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// UsesDefaultSecret reports whether tokens are signed with DefaultJWTSecret.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWT.Secret == DefaultJWTSecret
}

// Describe returns a one-line summary for the startup log.
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=bcrypt(cost=%d)", c.JWT.Method, c.JWT.TTL, c.Password.BcryptCost)
}
