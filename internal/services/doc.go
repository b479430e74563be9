// Package services holds the application logic between the HTTP handlers and
// the table processing packages.
//
// DashboardService turns an uploaded CSV or XLSX file into a domain.Dashboard:
// the parsed table, one chart dataset per labeled row, the default highlighted
// series and the normalized radar chart. It also renders dashboards through the
// exporter package. Every build is traced, logged and counted.
//
// HealthService answers the health, liveness, readiness and version endpoints.
// Components register readiness checks at startup:
//
//	health := services.NewHealthService(logger)
//	health.RegisterCheck("templates", func(ctx context.Context) error { return nil })
//
// Errors returned by Build are the sentinels of this package and of
// dataprocessing; their messages are meant for the end user. FailureKind maps
// them to the label used in metrics.
package services
