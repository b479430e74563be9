package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"metricsboard/internal/dataprocessing"
	"metricsboard/internal/exporter"
	"metricsboard/internal/infrastructure"
	"metricsboard/pkg/contracts/domain"
)

// Source formats recognised by DetectFormat
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Upload is one submitted file held in memory
type Upload struct {
	Filename string
	Data     []byte
}

// ExportResult is a rendered export ready to be sent
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DashboardService turns uploads into dashboards and exports
type DashboardService struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *infrastructure.BusinessMetrics
	extensions []string
}

// NewDashboardService creates a dashboard service. extensions lists the accepted
// file extensions including the dot; metrics may be nil.
func NewDashboardService(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, extensions []string) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		logger:     infrastructure.WithComponent(logger, "dashboard_service"),
		tracer:     tracer,
		metrics:    metrics,
		extensions: extensions,
	}
}

// DetectFormat maps a file name to a parser. Names without an extension are read as CSV.
func (s *DashboardService) DetectFormat(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return FormatCSV, nil
	}
	if !slices.Contains(s.extensions, ext) {
		return "", ErrUnsupportedFormat
	}
	if ext == ".xlsx" {
		return FormatXLSX, nil
	}
	return FormatCSV, nil
}

// Build parses the upload, selects the highlighted series and normalizes the radar chart.
// Any parse failure aborts the build; no partial dashboard is returned.
func (s *DashboardService) Build(ctx context.Context, upload *Upload) (*domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.build")
	defer span.End()

	start := time.Now()
	format := FormatCSV

	dashboard, table, err := s.build(ctx, upload, &format)

	outcome := infrastructure.BuildOutcome{
		Format:      format,
		Duration:    time.Since(start),
		FailureKind: FailureKind(err),
	}
	if err != nil {
		s.metrics.RecordBuild(ctx, outcome)
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "dashboard build failed",
			slog.String("error", err.Error()),
			slog.String("kind", outcome.FailureKind),
			slog.String("format", format),
			slog.String("filename", uploadName(upload)),
		)
		return nil, err
	}

	outcome.Rows = len(table.Datasets)
	outcome.SkippedRows = table.SkippedRows
	s.metrics.RecordBuild(ctx, outcome)

	span.SetAttributes(
		attribute.String("dashboard.format", format),
		attribute.Int("dashboard.periods", len(dashboard.Periods)),
		attribute.Int("dashboard.datasets", len(dashboard.ChartDatasets)),
	)
	s.logger.InfoContext(ctx, "dashboard built",
		slog.String("filename", upload.Filename),
		slog.String("format", format),
		slog.Int("rows", len(dashboard.Rows)),
		slog.Int("datasets", len(dashboard.ChartDatasets)),
		slog.Int("skipped_rows", table.SkippedRows),
		slog.Int("periods", len(dashboard.Periods)),
		slog.Duration("duration", outcome.Duration),
	)

	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, upload *Upload, format *string) (*domain.Dashboard, *dataprocessing.ParsedTable, error) {
	// Browsers submit an empty, unnamed part when no file is chosen.
	if upload == nil || (upload.Filename == "" && len(upload.Data) == 0) {
		return nil, nil, ErrMissingFile
	}

	detected, err := s.DetectFormat(upload.Filename)
	if err != nil {
		return nil, nil, err
	}
	*format = detected

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var table *dataprocessing.ParsedTable
	switch detected {
	case FormatXLSX:
		table, err = dataprocessing.ParseWorkbook(upload.Data)
	default:
		table, err = dataprocessing.ParseCSV(upload.Data)
	}
	if err != nil {
		return nil, nil, err
	}

	highlight := dataprocessing.SelectHighlight(table.Datasets)
	radar := dataprocessing.BuildRadar(table.Periods, table.Lookup)

	return &domain.Dashboard{
		SourceName:            upload.Filename,
		Headers:               table.Headers,
		Rows:                  table.Rows,
		Periods:               table.Periods,
		ChartDatasets:         table.Datasets,
		DatasetOptions:        highlight.Options,
		DefaultHighlightLabel: highlight.HighlightLabel,
		RadarAxisLabels:       radar.AxisLabels,
		RadarDatasets:         radar.Datasets,
		RadarAxisMeta:         radar.AxisMeta,
	}, table, nil
}

// Export builds the dashboard and renders it in the requested format.
// filename names the download without extension; empty derives it from the upload.
func (s *DashboardService) Export(ctx context.Context, upload *Upload, format, filename string) (*ExportResult, error) {
	exp, err := exporter.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, format)
	}

	dashboard, err := s.Build(ctx, upload)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.export", trace.WithAttributes(
		attribute.String("export.format", format),
	))
	defer span.End()

	start := time.Now()
	var buf bytes.Buffer
	err = exp.Export(&buf, dashboard)
	s.metrics.RecordExport(ctx, format, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dashboard export failed",
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	if filename == "" {
		filename = strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename)) + "_dashboard"
	}

	s.logger.InfoContext(ctx, "dashboard exported",
		slog.String("format", format),
		slog.Int("bytes", buf.Len()),
	)

	return &ExportResult{
		Filename:    filename + exp.Extension(),
		ContentType: exp.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func uploadName(upload *Upload) string {
	if upload == nil {
		return ""
	}
	return upload.Filename
}
