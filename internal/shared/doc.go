// Package shared holds helpers used by more than one layer of metricsboard.
//
// Only code without domain knowledge belongs here. The testutil subpackage
// provides an in-memory slog handler so tests can assert on structured logs.
package shared
