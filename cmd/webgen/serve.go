package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/webgen/bootstrap"
	"github.com/kbukum/webgen/generate"
	"github.com/kbukum/webgen/llm"
	_ "github.com/kbukum/webgen/llm/gemini"
	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/observability"
	"github.com/kbukum/webgen/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation relay",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg *AppConfig) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := app.Logger.WithComponent("serve")

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability setup: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdown))

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	upstream, err := llm.New(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	creds := generate.EnvCredentials(cfg.Upstream.APIKeyEnv)
	_, ok := creds.APIKey()
	if !ok {
		log.Warn("Upstream API key is not set; generation requests will fail until it is", logger.Fields(
			"env", cfg.Upstream.APIKeyEnv,
		))
	}
	svc := generate.NewService(upstream, creds, cfg.Intent)
	handler := generate.NewHandler(svc, cfg.Relay, metrics, cfg.Name)

	srv := server.New(&cfg.Server, app.Logger)
	srv.ApplyDefaults(cfg.Name, svc)
	handler.RegisterRoutes(srv.GinEngine())

	app.AddComponent("http", srv)
	app.AddHealthCheck(svc)

	trackRoutes(app.Summary, srv)
	app.Summary.TrackInfrastructure("http", "server", fmt.Sprintf("relay=%s/%s", cfg.Relay.Mode, cfg.Relay.StreamFormat), cfg.Server.Port)
	app.Summary.TrackInfrastructure(upstream.Name(), "upstream", upstreamDetail(cfg.Upstream, ok), 0)
	if cfg.Observability.Enabled {
		app.Summary.TrackInfrastructure("otlp", "telemetry", cfg.Observability.Endpoint, 0)
	}

	return app.Run(ctx)
}

// upstreamDetail describes the upstream for the startup summary. The key is
// reported only as set or missing.
func upstreamDetail(cfg llm.Config, keySet bool) string {
	state := "missing"
	if keySet {
		state = "set"
	}
	return fmt.Sprintf("%s model=%s key=%s", cfg.BaseURL, cfg.Model, state)
}

func trackRoutes(s *bootstrap.Summary, srv *server.Server) {
	for _, r := range srv.Routes() {
		if !r.System {
			s.TrackRoute(r.Method, r.Path, r.Handler)
		}
	}
}
