package services

import (
	"context"
	"errors"

	"metricsboard/internal/dataprocessing"
)

// Upload errors. Messages are shown to the user as is.
var (
	ErrMissingFile       = errors.New("CSVファイルを選択してください。")
	ErrUnsupportedFormat = errors.New("CSVまたはExcel(.xlsx)ファイルを選択してください。")
)

// FailureKind classifies a Build error for metrics and logs
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, dataprocessing.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, dataprocessing.ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, dataprocessing.ErrNoNumericData):
		return "no_numeric_data"
	case errors.Is(err, dataprocessing.ErrUnreadableInput):
		return "unreadable_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
