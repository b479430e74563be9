package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"metricsboard/pkg/contracts/domain"
)

// utf8BOM makes Excel open UTF-8 CSV files with the right encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool
}

// WriteCSV writes headers and records to w
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVExporter writes the table followed by the radar block, separated by an empty line
type CSVExporter struct{}

// ContentType implements Exporter
func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implements Exporter
func (CSVExporter) Extension() string { return ".csv" }

// Export implements Exporter
func (CSVExporter) Export(w io.Writer, d *domain.Dashboard) error {
	records := make([][]string, 0, len(d.Rows)+len(d.RadarAxisLabels)+2)
	for _, row := range d.Rows {
		records = append(records, row.Cells())
	}

	if len(d.RadarDatasets) > 0 {
		records = append(records, []string{})
		records = append(records, radarHeader(d))
		records = append(records, radarRecords(d)...)
	}

	return WriteCSV(w, WriteOptions{
		Headers:   d.Headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// radarHeader is the first row of the radar block: axis column, one column per period, then the scale
func radarHeader(d *domain.Dashboard) []string {
	header := make([]string, 0, len(d.RadarDatasets)+2)
	header = append(header, radarAxisTitle)
	for _, ds := range d.RadarDatasets {
		header = append(header, ds.Label)
	}
	return append(header, radarMaxTitle)
}

// radarRecords lists the unscaled value of every axis per period and the axis maximum
func radarRecords(d *domain.Dashboard) [][]string {
	records := make([][]string, 0, len(d.RadarAxisLabels))
	for i, label := range d.RadarAxisLabels {
		record := make([]string, 0, len(d.RadarDatasets)+2)
		record = append(record, label)
		for _, ds := range d.RadarDatasets {
			record = append(record, formatFloat(ds.OriginalData[i]))
		}
		if i < len(d.RadarAxisMeta) {
			record = append(record, formatFloat(d.RadarAxisMeta[i].MaxValue))
		}
		records = append(records, record)
	}
	return records
}
