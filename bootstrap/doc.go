// Package bootstrap runs a service through its lifecycle: config defaults
// and validation, logger setup, ordered component start, hooks, a startup
// summary, signal handling and graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(model)
//	app.RegisterComponent(httpServer)
//	if err := app.Run(ctx); err != nil {
//	    os.Exit(1)
//	}
package bootstrap
