// Command chartcsv builds the dashboard view model from a CSV or XLSX file
// without starting the web server.
//
//	chartcsv -in metrics.csv [-out view.json] [-xlsx dashboard.xlsx] [-csv dashboard.csv]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"metricsboard/internal/config"
	"metricsboard/internal/exporter"
	"metricsboard/internal/infrastructure"
	"metricsboard/internal/services"
	"metricsboard/internal/validation"
	"metricsboard/pkg/contracts"
	"metricsboard/pkg/contracts/domain"
)

type options struct {
	in      string
	out     string
	xlsx    string
	csv     string
	version bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("chartcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "input table (.csv or .xlsx)")
	fs.StringVar(&opts.out, "out", "", "write the dashboard JSON here instead of stdout")
	fs.StringVar(&opts.xlsx, "xlsx", "", "also write an Excel workbook with table and radar sheets")
	fs.StringVar(&opts.csv, "csv", "", "also write the table and radar block as CSV")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if !opts.version && opts.in == "" {
		fs.Usage()
		return opts, errors.New("-in is required")
	}
	return opts, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	// stdout carries the JSON, so logs go to stderr
	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(context.Background(), os.Args[1:], cfg, logger, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetVersionString())
		return nil
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateTableFile(opts.in, cfg.Upload.Extensions, cfg.Upload.MaxBytes); err != nil {
		return err
	}
	outputs := []struct{ path, ext string }{
		{opts.out, ".json"},
		{opts.xlsx, ".xlsx"},
		{opts.csv, ".csv"},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := validator.ValidateOutputFile(o.path, o.ext); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.in, err)
	}

	providers := infrastructure.NoopProviders(logger)
	service := services.NewDashboardService(logger, providers.Tracer, nil, cfg.Upload.Extensions)

	dashboard, err := service.Build(ctx, &services.Upload{Filename: opts.in, Data: data})
	if err != nil {
		return err
	}

	if err := writeJSON(opts.out, stdout, dashboard); err != nil {
		return err
	}
	if opts.xlsx != "" {
		if err := writeExport(opts.xlsx, exporter.XLSXExporter{}, dashboard); err != nil {
			return err
		}
	}
	if opts.csv != "" {
		if err := writeExport(opts.csv, exporter.CSVExporter{}, dashboard); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "Dashboard written",
		slog.String("input", opts.in),
		slog.String("json", opts.out),
		slog.String("xlsx", opts.xlsx),
		slog.String("csv", opts.csv),
		slog.Int("datasets", len(dashboard.ChartDatasets)))
	return nil
}

func writeJSON(path string, stdout io.Writer, dashboard *domain.Dashboard) error {
	body, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	body = append(body, '\n')

	if path == "" {
		_, err = stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeExport(path string, exp exporter.Exporter, dashboard *domain.Dashboard) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := exp.Export(f, dashboard); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
