package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"metricsboard/internal/dataprocessing"
	"metricsboard/pkg/contracts/domain"
)

// Sheet names of the exported workbook
const (
	TableSheet = "データ"
	RadarSheet = "レーダー"
)

// XLSXExporter writes the table and the radar data to separate worksheets
// and adds a native radar chart over the normalized values.
type XLSXExporter struct{}

// ContentType implements Exporter
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Exporter
func (XLSXExporter) Extension() string { return ".xlsx" }

// Export implements Exporter
func (XLSXExporter) Export(w io.Writer, d *domain.Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TableSheet); err != nil {
		return fmt.Errorf("failed to name table sheet: %w", err)
	}
	if err := writeTableSheet(f, d); err != nil {
		return err
	}

	if len(d.RadarDatasets) > 0 {
		if _, err := f.NewSheet(RadarSheet); err != nil {
			return fmt.Errorf("failed to create radar sheet: %w", err)
		}
		if err := writeRadarSheet(f, d); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeTableSheet copies the table; numeric-looking cells are stored as numbers
func writeTableSheet(f *excelize.File, d *domain.Dashboard) error {
	if err := setRow(f, TableSheet, 1, stringsToCells(d.Headers)); err != nil {
		return err
	}

	for i, row := range d.Rows {
		cells := make([]interface{}, 0, len(row.Values)+1)
		cells = append(cells, row.Label)
		for _, v := range row.Values {
			if n, ok := dataprocessing.ParseNumber(v); ok {
				cells = append(cells, n)
			} else {
				cells = append(cells, v)
			}
		}
		if err := setRow(f, TableSheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

// writeRadarSheet lays out two blocks: unscaled values with the axis maximum,
// then the normalized values the chart plots.
func writeRadarSheet(f *excelize.File, d *domain.Dashboard) error {
	if err := setRow(f, RadarSheet, 1, stringsToCells(radarHeader(d))); err != nil {
		return err
	}
	for i, label := range d.RadarAxisLabels {
		cells := make([]interface{}, 0, len(d.RadarDatasets)+2)
		cells = append(cells, label)
		for _, ds := range d.RadarDatasets {
			cells = append(cells, ds.OriginalData[i])
		}
		if i < len(d.RadarAxisMeta) {
			cells = append(cells, d.RadarAxisMeta[i].MaxValue)
		}
		if err := setRow(f, RadarSheet, i+2, cells); err != nil {
			return err
		}
	}

	normStart := len(d.RadarAxisLabels) + 3
	header := make([]interface{}, 0, len(d.RadarDatasets)+1)
	header = append(header, radarAxisTitle+"(0-100)")
	for _, ds := range d.RadarDatasets {
		header = append(header, ds.Label)
	}
	if err := setRow(f, RadarSheet, normStart, header); err != nil {
		return err
	}
	for i, label := range d.RadarAxisLabels {
		cells := make([]interface{}, 0, len(d.RadarDatasets)+1)
		cells = append(cells, label)
		for _, ds := range d.RadarDatasets {
			cells = append(cells, ds.Data[i])
		}
		if err := setRow(f, RadarSheet, normStart+i+1, cells); err != nil {
			return err
		}
	}

	return addRadarChart(f, d, normStart)
}

func addRadarChart(f *excelize.File, d *domain.Dashboard, headerRow int) error {
	firstRow := headerRow + 1
	lastRow := headerRow + len(d.RadarAxisLabels)
	categories := fmt.Sprintf("'%s'!$A$%d:$A$%d", RadarSheet, firstRow, lastRow)

	series := make([]excelize.ChartSeries, 0, len(d.RadarDatasets))
	for j := range d.RadarDatasets {
		col, err := excelize.ColumnNumberToName(j + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$%d", RadarSheet, col, headerRow),
			Categories: categories,
			Values:     fmt.Sprintf("'%s'!$%s$%d:$%s$%d", RadarSheet, col, firstRow, col, lastRow),
		})
	}

	anchorCol, err := excelize.ColumnNumberToName(len(d.RadarDatasets) + 4)
	if err != nil {
		return err
	}
	if err := f.AddChart(RadarSheet, fmt.Sprintf("%s2", anchorCol), &excelize.Chart{
		Type:   excelize.Radar,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "レーダーチャート"}},
	}); err != nil {
		return fmt.Errorf("failed to add radar chart: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
