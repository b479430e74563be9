// Package http implements the HTTP handlers of metricsboard.
//
// Handlers stay thin: they read the multipart upload, call the services layer
// and translate the result. JSON endpoints answer errors with RFC 7807 problem
// details through errors.ErrorHandler; the HTML page shows the same user-facing
// message above an empty dashboard.
//
// Routes:
//
//	GET  /                        dashboard page, empty state
//	POST /                        dashboard page for the uploaded file
//	POST /api/dashboard           dashboard as JSON
//	POST /api/dashboard/export    xlsx or csv download (?format=, ?filename=)
//	GET  /api/health[/live|/ready]
//	GET  /api/version
//
// The page template is embedded and renders chart data as JSON literals for
// Chart.js.
package http
