package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"metricsboard/internal/dataprocessing"
	"metricsboard/internal/exporter"
	"metricsboard/internal/infrastructure"
	"metricsboard/internal/shared/testutil"
	"metricsboard/pkg/contracts/domain"
)

const sampleCSV = "項目,2021,2022\n" +
	"平均単価,P,100,120\n" +
	"売上高,PQ,1000,1500\n" +
	"自己資産,,300,-150\n" +
	"備考,,-,-\n"

type serviceFixture struct {
	service *DashboardService
	spans   *tracetest.SpanRecorder
	reader  *sdkmetric.ManualReader
	logs    *testutil.BufferedSlogHandler
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	logger, logs := testutil.NewTestLogger(t)
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := infrastructure.CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return &serviceFixture{
		service: NewDashboardService(logger, tp.Tracer("test"), metrics, []string{".csv", ".xlsx"}),
		spans:   spans,
		reader:  reader,
		logs:    logs,
	}
}

func (f *serviceFixture) counter(t *testing.T, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestDashboardService_BuildCSV(t *testing.T) {
	f := newFixture(t)

	dashboard, err := f.service.Build(context.Background(), &Upload{Filename: "metrics.csv", Data: []byte(sampleCSV)})
	require.NoError(t, err)

	assert.Equal(t, "metrics.csv", dashboard.SourceName)
	assert.Equal(t, []string{"2021", "2022"}, dashboard.Periods)
	assert.Len(t, dashboard.Rows, 4)
	require.Len(t, dashboard.ChartDatasets, 3)
	assert.Equal(t, domain.DefaultHighlightLabel, dashboard.DefaultHighlightLabel)
	assert.Len(t, dashboard.DatasetOptions, 3)

	assert.Len(t, dashboard.RadarAxisLabels, dataprocessing.RadarAxisCount)
	require.Len(t, dashboard.RadarDatasets, 2)
	assert.Equal(t, "2021", dashboard.RadarDatasets[0].Label)
	assert.Empty(t, dashboard.Error)

	assert.Equal(t, int64(1), f.counter(t, "dashboard_uploads_total"))
	assert.Equal(t, int64(3), f.counter(t, "dashboard_rows_parsed_total"))
	assert.Equal(t, int64(1), f.counter(t, "dashboard_rows_skipped_total"))

	ended := f.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "dashboard.build", ended[0].Name())

	assert.True(t, f.logs.ContainsMessage("dashboard built"))
}

func TestDashboardService_BuildWorkbook(t *testing.T) {
	f := newFixture(t)

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]interface{}{"項目", "2021"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]interface{}{"売上高", "PQ", 1000}))
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	require.NoError(t, wb.Close())

	dashboard, err := f.service.Build(context.Background(), &Upload{Filename: "Metrics.XLSX", Data: buf.Bytes()})
	require.NoError(t, err)

	require.Len(t, dashboard.ChartDatasets, 1)
	assert.Equal(t, "売上高", dashboard.ChartDatasets[0].Label)
	assert.Equal(t, "売上高", dashboard.DefaultHighlightLabel, "falls back to the first series")
	assert.Equal(t, 1000.0, dashboard.RadarDatasets[0].OriginalData[3])
}

func TestDashboardService_BuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		upload   *Upload
		wantErr  error
		wantKind string
	}{
		{name: "nil upload", upload: nil, wantErr: ErrMissingFile, wantKind: "missing_file"},
		{name: "no file chosen", upload: &Upload{}, wantErr: ErrMissingFile, wantKind: "missing_file"},
		{name: "unsupported extension", upload: &Upload{Filename: "notes.pdf", Data: []byte("x")}, wantErr: ErrUnsupportedFormat, wantKind: "unsupported_format"},
		{name: "empty file", upload: &Upload{Filename: "a.csv"}, wantErr: dataprocessing.ErrEmptyInput, wantKind: "empty_input"},
		{name: "single column", upload: &Upload{Filename: "a.csv", Data: []byte("Label\nRev\n")}, wantErr: dataprocessing.ErrMalformedHeader, wantKind: "malformed_header"},
		{name: "no numbers", upload: &Upload{Filename: "a", Data: []byte("Label,2021\nRev,x\n")}, wantErr: dataprocessing.ErrNoNumericData, wantKind: "no_numeric_data"},
		{name: "broken workbook", upload: &Upload{Filename: "a.xlsx", Data: []byte("not a zip")}, wantErr: dataprocessing.ErrUnreadableInput, wantKind: "unreadable_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			dashboard, err := f.service.Build(context.Background(), tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, dashboard)
			assert.Equal(t, tt.wantKind, FailureKind(err))

			assert.Equal(t, int64(1), f.counter(t, "dashboard_parse_failures_total"))
			assert.True(t, f.logs.ContainsMessage("dashboard build failed"))
		})
	}
}

func TestDashboardService_BuildCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Build(ctx, &Upload{Filename: "a.csv", Data: []byte(sampleCSV)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "canceled", FailureKind(err))
}

func TestDashboardService_NilMetrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	service := NewDashboardService(logger, sdktrace.NewTracerProvider().Tracer("test"), nil, []string{".csv"})

	_, err := service.Build(context.Background(), &Upload{Filename: "a.csv", Data: []byte(sampleCSV)})
	assert.NoError(t, err)
}

func TestDashboardService_DetectFormat(t *testing.T) {
	f := newFixture(t)

	tests := map[string]string{
		"a.csv":      FormatCSV,
		"A.CSV":      FormatCSV,
		"table":      FormatCSV,
		"book.xlsx":  FormatXLSX,
		"dir/b.Xlsx": FormatXLSX,
	}
	for name, want := range tests {
		got, err := f.service.DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := f.service.DetectFormat("legacy.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDashboardService_Export(t *testing.T) {
	f := newFixture(t)
	upload := &Upload{Filename: "metrics.csv", Data: []byte(sampleCSV)}

	result, err := f.service.Export(context.Background(), upload, "csv", "")
	require.NoError(t, err)
	assert.Equal(t, "metrics_dashboard.csv", result.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)
	assert.Contains(t, string(result.Data), "売上高")

	result, err = f.service.Export(context.Background(), upload, "xlsx", "report")
	require.NoError(t, err)
	assert.Equal(t, "report.xlsx", result.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{exporter.TableSheet, exporter.RadarSheet}, wb.GetSheetList())

	assert.Equal(t, int64(2), f.counter(t, "dashboard_exports_total"))
}

func TestDashboardService_ExportErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Export(context.Background(), &Upload{Filename: "a.csv", Data: []byte(sampleCSV)}, "pdf", "")
	assert.ErrorIs(t, err, exporter.ErrUnknownFormat)

	_, err = f.service.Export(context.Background(), &Upload{Filename: "a.csv"}, "csv", "")
	assert.ErrorIs(t, err, dataprocessing.ErrEmptyInput)
	assert.Equal(t, int64(0), f.counter(t, "dashboard_exports_total"))
}
