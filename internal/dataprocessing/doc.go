// Package dataprocessing turns an uploaded metrics table into chart-ready data.
// It is the pure core of the dashboard: no I/O beyond the bytes it is handed,
// no logging, no shared state.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads CSV (or the first sheet of an XLSX workbook) into display rows,
// numeric series and a label lookup
// 2. Highlight selection: picks the series checked by default on the line chart
// 3. Radar normalization: maps the seven canonical metrics onto the lookup and
// scales each period against the per-axis maximum magnitude
//
// # Usage
//
//	table, err := dataprocessing.ParseCSV(data)
//	if err != nil {
//	    return err // ErrEmptyInput, ErrMalformedHeader, ErrNoNumericData, ...
//	}
//	highlight := dataprocessing.SelectHighlight(table.Datasets)
//	radar := dataprocessing.BuildRadar(table.Periods, table.Lookup)
//
// # Data Flow
//
//	CSV bytes → records → ParsedTable{Rows, Datasets, Lookup} → SelectHighlight / BuildRadar
//
// # Missing Values
//
// Blank or unparseable cells are stored as nil entries in a NumericSeries.
// They are folded to zero only inside the radar computation, never in storage.
package dataprocessing
