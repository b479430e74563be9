package exporter

import (
	"errors"
	"io"
	"strings"

	"metricsboard/pkg/contracts/domain"
)

// ErrUnknownFormat is returned by ForFormat for names it does not know
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter serializes a dashboard into a downloadable document
type Exporter interface {
	Export(w io.Writer, d *domain.Dashboard) error
	ContentType() string
	Extension() string
}

// ForFormat returns the exporter for "csv" or "xlsx"
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "csv":
		return CSVExporter{}, nil
	case "xlsx":
		return XLSXExporter{}, nil
	default:
		return nil, ErrUnknownFormat
	}
}
