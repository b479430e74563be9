package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"

	"metricsboard/pkg/contracts/domain"
)

// ParsedTable is the result of parsing one uploaded table
type ParsedTable struct {
	Headers  []string
	Rows     []domain.DisplayRow
	Periods  []string
	Datasets []domain.ChartDataset
	Lookup   *RowLookup

	// SkippedRows counts data rows without a single numeric cell
	SkippedRows int
}

// ParseCSV reads CSV bytes (UTF-8, optional BOM) into a ParsedTable.
func ParseCSV(data []byte) (*ParsedTable, error) {
	records, err := readCSVRecords(data)
	if err != nil {
		return nil, err
	}
	return ParseRecords(records)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSVRecords decodes the input and splits it into records of any width.
// Input that is not valid UTF-8 is rejected rather than replaced with U+FFFD.
func readCSVRecords(data []byte) ([][]string, error) {
	if !utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrUnreadableInput)
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	normalized := transform.NewReader(bytes.NewReader(data), transform.Chain(decoder, &newlineNormalizer{}))
	reader := csv.NewReader(normalized)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	return records, nil
}

// ParseRecords builds a ParsedTable from already split records.
// The first non-blank record is the header; its remaining cells are the periods.
func ParseRecords(records [][]string) (*ParsedTable, error) {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		if !isBlankRecord(record) {
			rows = append(rows, record)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	headers := rows[0]
	if len(headers) < 2 {
		return nil, ErrMalformedHeader
	}
	periods := headers[1:]
	periodCount := len(periods)

	table := &ParsedTable{
		Headers:  headers,
		Rows:     make([]domain.DisplayRow, 0, len(rows)-1),
		Periods:  periods,
		Datasets: []domain.ChartDataset{},
		Lookup:   NewRowLookup(),
	}

	for _, row := range rows[1:] {
		label := strings.TrimSpace(row[0])
		if label == "" {
			label = domain.UnlabeledRow
		}
		values := row[1:]
		table.Rows = append(table.Rows, domain.DisplayRow{Label: label, Values: values})

		series, hasNumber := parseSeries(numericSegment(values, periodCount))
		if !hasNumber {
			table.SkippedRows++
			continue
		}

		table.Datasets = append(table.Datasets, domain.ChartDataset{Label: label, Data: series})
		table.Lookup.Set(label, series)

		// Cells in front of the numeric segment name the same series.
		metadataColumns := len(values) - periodCount
		for i := 0; i < metadataColumns; i++ {
			if descriptor := strings.TrimSpace(values[i]); descriptor != "" {
				table.Lookup.SetIfAbsent(descriptor, series)
			}
		}
	}

	if len(table.Datasets) == 0 {
		return nil, ErrNoNumericData
	}
	return table, nil
}

// numericSegment returns the last periodCount cells, right-padded with blanks
func numericSegment(values []string, periodCount int) []string {
	segment := make([]string, periodCount)
	start := len(values) - periodCount
	if start < 0 {
		start = 0
	}
	copy(segment, values[start:])
	return segment
}

// parseSeries converts cells to optional floats and reports whether any parsed
func parseSeries(cells []string) (domain.NumericSeries, bool) {
	series := make(domain.NumericSeries, len(cells))
	hasNumber := false
	for i, cell := range cells {
		if v, ok := ParseNumber(cell); ok {
			series[i] = &v
			hasNumber = true
		}
	}
	return series, hasNumber
}

// ParseNumber parses a trimmed cell as a float. Full-width digits are accepted.
// Blank, non-numeric, NaN and infinite cells are reported as missing.
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	cell = width.Narrow.String(cell)
	// strconv also reads hex floats such as 0x1p4; table cells are decimal only.
	if strings.ContainsAny(cell, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// newlineNormalizer rewrites CRLF and lone CR line endings to LF so files
// saved with classic Mac line endings still split into records.
type newlineNormalizer struct {
	pendingCR bool
}

func (n *newlineNormalizer) Reset() { n.pendingCR = false }

func (n *newlineNormalizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if n.pendingCR {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '\n'
			nDst++
			n.pendingCR = false
			if c == '\n' {
				nSrc++
				continue
			}
		}
		if c == '\r' {
			n.pendingCR = true
			nSrc++
			continue
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if atEOF && n.pendingCR {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = '\n'
		nDst++
		n.pendingCR = false
	}
	return nDst, nSrc, nil
}
