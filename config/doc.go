// Package config loads service configuration with Viper.
//
// Values come from, in increasing precedence: registered defaults, a YAML
// file (cmd/<service>/config.yml or an explicit path), a .env file and the
// process environment. Environment keys are matched against nested config
// keys, so RELAY_MODE sets relay.mode and SERVER_PORT sets server.port.
// Aliases map bare names such as PORT onto a nested key.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("webgen", &cfg,
//	    config.WithEnvAlias("PORT", "server.port"))
package config
