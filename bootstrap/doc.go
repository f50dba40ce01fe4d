// Package bootstrap runs a service's lifecycle: typed config checks, logger
// setup, component start in registration order, startup hooks, a ready
// check, a startup summary, and graceful shutdown on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.AddComponent("http", srv)
//	app.AddHealthCheck(upstream)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
