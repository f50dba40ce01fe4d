package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/webgen/auth/account"
	"github.com/kbukum/webgen/auth/password"
	"github.com/kbukum/webgen/bootstrap"
	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/server"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Run the sign-up/sign-in service",
	Long:  `auth runs the account service on its own port. Accounts live in memory and are lost on restart.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runAuth(cmd.Context(), cfg)
	},
}

func runAuth(ctx context.Context, cfg *AppConfig) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	app.Name = cfg.Name + "-auth"
	log := app.Logger.WithComponent("auth")

	if cfg.Auth.UsesDefaultSecret() {
		log.Warn("Signing tokens with the built-in development secret; set AUTH_JWT_SECRET")
	}

	tokens, err := account.NewTokenService(cfg.Auth.JWT)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	store := account.NewMemoryStore(password.NewHasher(cfg.Auth.Password))
	handler := account.NewHandler(account.NewService(store, tokens))

	srvCfg := cfg.Server
	srvCfg.Port = cfg.Auth.Port
	srv := server.New(&srvCfg, app.Logger)
	srv.ApplyDefaults(app.Name)
	handler.RegisterRoutes(srv.GinEngine())

	app.AddComponent("http", srv)
	trackRoutes(app.Summary, srv)
	app.Summary.TrackInfrastructure("http", "server", cfg.Auth.Describe(), srvCfg.Port)

	log.Debug("Auth service configured", logger.Fields("port", srvCfg.Port, "ttl", cfg.Auth.JWT.TTL.String()))
	return app.Run(ctx)
}
