package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"metricsboard/pkg/contracts/domain"
)

func num(v float64) *float64 { return &v }

func TestParseCSV_Basic(t *testing.T) {
	table, err := ParseCSV([]byte("Label,2021,2022\nRev,100,200\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Label", "2021", "2022"}, table.Headers)
	assert.Equal(t, []string{"2021", "2022"}, table.Periods)
	require.Len(t, table.Datasets, 1)
	assert.Equal(t, domain.ChartDataset{Label: "Rev", Data: domain.NumericSeries{num(100), num(200)}}, table.Datasets[0])
	assert.Equal(t, []domain.DisplayRow{{Label: "Rev", Values: []string{"100", "200"}}}, table.Rows)

	series, ok := table.Lookup.Get("Rev")
	require.True(t, ok)
	assert.Equal(t, domain.NumericSeries{num(100), num(200)}, series)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty file", input: "", wantErr: ErrEmptyInput},
		{name: "only blank rows", input: " , \n\n  ,\t\n", wantErr: ErrEmptyInput},
		{name: "single column header", input: "Label\nRev\n", wantErr: ErrMalformedHeader},
		{name: "header only", input: "Label,2021,2022\n", wantErr: ErrNoNumericData},
		{name: "no numeric cells", input: "Label,2021\nRev,abc\nCost,\n", wantErr: ErrNoNumericData},
		{name: "bom and blank rows only", input: "\xEF\xBB\xBF,,\n", wantErr: ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseCSV([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, table)
		})
	}
}

func TestParseCSV_MissingCells(t *testing.T) {
	table, err := ParseCSV([]byte("Label,2021,2022\nX,n/a,50\nY,a,b\n"))
	require.NoError(t, err)

	require.Len(t, table.Datasets, 1)
	assert.Equal(t, "X", table.Datasets[0].Label)
	assert.Equal(t, domain.NumericSeries{nil, num(50)}, table.Datasets[0].Data)

	_, ok := table.Lookup.Get("Y")
	assert.False(t, ok, "a row without numbers must not be registered")
	assert.Len(t, table.Rows, 2, "non-numeric rows are still displayed")
	assert.Equal(t, 1, table.SkippedRows)
}

func TestParseCSV_ShortRowIsPadded(t *testing.T) {
	table, err := ParseCSV([]byte("Label,A,B,C\nX,5\n"))
	require.NoError(t, err)

	require.Len(t, table.Datasets, 1)
	assert.Equal(t, domain.NumericSeries{num(5), nil, nil}, table.Datasets[0].Data)
	assert.Equal(t, []string{"5"}, table.Rows[0].Values)
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	table, err := ParseCSV([]byte("\xEF\xBB\xBFLabel,2021\nRev,1\n"))
	require.NoError(t, err)

	assert.Equal(t, "Label", table.Headers[0])
}

func TestParseCSV_QuotedCells(t *testing.T) {
	table, err := ParseCSV([]byte("Label,2021\n\"Sales, net\",\" 1000 \"\n"))
	require.NoError(t, err)

	require.Len(t, table.Datasets, 1)
	assert.Equal(t, "Sales, net", table.Datasets[0].Label)
	assert.Equal(t, domain.NumericSeries{num(1000)}, table.Datasets[0].Data)
	assert.Equal(t, []string{" 1000 "}, table.Rows[0].Values, "display cells stay verbatim")
}

func TestParseCSV_EmptyLabel(t *testing.T) {
	table, err := ParseCSV([]byte("Label,2021\n  ,7\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.UnlabeledRow, table.Rows[0].Label)
	assert.Equal(t, domain.UnlabeledRow, table.Datasets[0].Label)
}

func TestParseCSV_DescriptorAliases(t *testing.T) {
	input := "Label,2021,2022\n" +
		"売上高,PQ,100,200\n" +
		"Other,PQ,1,2\n"

	table, err := ParseCSV([]byte(input))
	require.NoError(t, err)

	want := domain.NumericSeries{num(100), num(200)}
	for _, key := range []string{"売上高", "PQ"} {
		series, ok := table.Lookup.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want, series, key)
	}

	other, ok := table.Lookup.Get("Other")
	require.True(t, ok)
	assert.Equal(t, domain.NumericSeries{num(1), num(2)}, other)
	assert.Equal(t, []string{"売上高", "PQ", "Other"}, table.Lookup.Keys())
}

func TestParseCSV_PrimaryLabelLastWriteWins(t *testing.T) {
	input := "Label,2021\n" +
		"R,1\n" +
		"A,X,3\n" +
		"R,2\n" +
		"X,5\n"

	table, err := ParseCSV([]byte(input))
	require.NoError(t, err)

	assert.Len(t, table.Datasets, 4, "duplicate labels keep their own dataset")

	r, _ := table.Lookup.Get("R")
	assert.Equal(t, domain.NumericSeries{num(2)}, r)

	// X was first a descriptor alias of A, then a primary label which replaces it.
	x, _ := table.Lookup.Get("X")
	assert.Equal(t, domain.NumericSeries{num(5)}, x)
}

func TestParseCSV_DescriptorDoesNotReplacePrimaryLabel(t *testing.T) {
	input := "Label,2021\n" +
		"PQ,10\n" +
		"売上高,PQ,99\n"

	table, err := ParseCSV([]byte(input))
	require.NoError(t, err)

	pq, _ := table.Lookup.Get("PQ")
	assert.Equal(t, domain.NumericSeries{num(10)}, pq)
}

func TestParseCSV_RejectsShiftJIS(t *testing.T) {
	data, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("項目,2021\n売上高,100\n"))
	require.NoError(t, err)

	_, err = ParseCSV(data)
	assert.ErrorIs(t, err, ErrUnreadableInput)
}

func TestParseCSV_LineEndings(t *testing.T) {
	inputs := map[string]string{
		"lf":   "Label,2021\nRev,100\nCost,5\n",
		"crlf": "Label,2021\r\nRev,100\r\nCost,5\r\n",
		"cr":   "Label,2021\rRev,100\rCost,5\r",
		"mix":  "Label,2021\r\nRev,100\rCost,5",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			table, err := ParseCSV([]byte(input))
			require.NoError(t, err)

			require.Len(t, table.Datasets, 2)
			assert.Equal(t, "Rev", table.Datasets[0].Label)
			assert.Equal(t, domain.NumericSeries{num(5)}, table.Datasets[1].Data)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell   string
		want   float64
		wantOK bool
	}{
		{cell: "100", want: 100, wantOK: true},
		{cell: " -12.5 ", want: -12.5, wantOK: true},
		{cell: "1e3", want: 1000, wantOK: true},
		{cell: "１２３", want: 123, wantOK: true},
		{cell: "", wantOK: false},
		{cell: "   ", wantOK: false},
		{cell: "n/a", wantOK: false},
		{cell: "1,000", wantOK: false},
		{cell: "NaN", wantOK: false},
		{cell: "inf", wantOK: false},
		{cell: "1e400", wantOK: false},
		{cell: "0x1p4", wantOK: false},
		{cell: "0X10", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
