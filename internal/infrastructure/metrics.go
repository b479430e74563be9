package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the HTTP and dashboard instruments
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	UploadsTotal   metric.Int64Counter
	ParseFailures  metric.Int64Counter
	RowsParsed     metric.Int64Counter
	SkippedRows    metric.Int64Counter
	BuildDuration  metric.Float64Histogram
	ExportsTotal   metric.Int64Counter
	ExportDuration metric.Float64Histogram
}

// CreateBusinessMetrics registers every instrument on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	var (
		m   BusinessMetrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Requests currently being served"),
	); err != nil {
		return nil, err
	}
	if m.UploadsTotal, err = meter.Int64Counter(
		"dashboard_uploads_total",
		metric.WithDescription("Uploaded tables by source format and outcome"),
	); err != nil {
		return nil, err
	}
	if m.ParseFailures, err = meter.Int64Counter(
		"dashboard_parse_failures_total",
		metric.WithDescription("Uploads rejected, by failure kind"),
	); err != nil {
		return nil, err
	}
	if m.RowsParsed, err = meter.Int64Counter(
		"dashboard_rows_parsed_total",
		metric.WithDescription("Data rows that produced a chart dataset"),
	); err != nil {
		return nil, err
	}
	if m.SkippedRows, err = meter.Int64Counter(
		"dashboard_rows_skipped_total",
		metric.WithDescription("Data rows without a single numeric cell"),
	); err != nil {
		return nil, err
	}
	if m.BuildDuration, err = meter.Float64Histogram(
		"dashboard_build_duration_seconds",
		metric.WithDescription("Time spent turning an upload into a dashboard"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ExportsTotal, err = meter.Int64Counter(
		"dashboard_exports_total",
		metric.WithDescription("Dashboard exports by format"),
	); err != nil {
		return nil, err
	}
	if m.ExportDuration, err = meter.Float64Histogram(
		"dashboard_export_duration_seconds",
		metric.WithDescription("Time spent writing an export"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// BuildOutcome describes one dashboard build for RecordBuild
type BuildOutcome struct {
	Format      string
	Rows        int
	SkippedRows int
	Duration    time.Duration
	// FailureKind is empty for successful builds
	FailureKind string
}

// RecordBuild records one upload attempt. A nil receiver is a no-op.
func (m *BusinessMetrics) RecordBuild(ctx context.Context, o BuildOutcome) {
	if m == nil {
		return
	}

	status := "success"
	if o.FailureKind != "" {
		status = "failure"
		m.ParseFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", o.FailureKind),
			attribute.String("format", o.Format),
		))
	}

	attrs := metric.WithAttributes(
		attribute.String("format", o.Format),
		attribute.String("status", status),
	)
	m.UploadsTotal.Add(ctx, 1, attrs)
	m.BuildDuration.Record(ctx, o.Duration.Seconds(), attrs)

	if o.FailureKind == "" {
		format := metric.WithAttributes(attribute.String("format", o.Format))
		m.RowsParsed.Add(ctx, int64(o.Rows), format)
		m.SkippedRows.Add(ctx, int64(o.SkippedRows), format)
	}
}

// RecordExport records one export. A nil receiver is a no-op.
func (m *BusinessMetrics) RecordExport(ctx context.Context, format string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("status", status),
	)
	m.ExportsTotal.Add(ctx, 1, attrs)
	m.ExportDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordHTTPRequest records a completed request
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
