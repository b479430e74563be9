// Package app wires metricsboard together and manages its lifecycle.
//
// NewApplication loads configuration, sets up the process logger and calls New,
// which initializes OpenTelemetry, the dashboard and health services, the HTTP
// handlers, the chi router with its middleware chain and the http.Server.
//
// Run serves until the context is cancelled or SIGINT/SIGTERM arrives. The
// server and the shutdown watcher run in one errgroup; shutdown drains active
// requests within Server.ShutdownTimeout and flushes telemetry.
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// All errors are returned to the caller; the package never calls os.Exit.
package app
