package bootstrap

import (
	"github.com/kbukum/webgen/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig and defines its own ApplyDefaults and
// Validate satisfies it through a pointer.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
//
//	app, err := bootstrap.NewApp[*AppConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
