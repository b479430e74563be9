// Package exporter turns a built dashboard into a downloadable document.
//
// CSVExporter writes a BOM-prefixed CSV so Excel detects UTF-8: the table as
// uploaded, an empty line, then one row per radar axis with the unscaled value
// for every period and the axis maximum.
//
// XLSXExporter writes a workbook with the table on the "データ" sheet and the
// radar values on the "レーダー" sheet, including a radar chart of the
// normalized values.
//
//	exp, err := exporter.ForFormat("xlsx")
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Type", exp.ContentType())
//	return exp.Export(w, dashboard)
package exporter
