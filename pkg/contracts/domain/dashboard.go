package domain

// DefaultHighlightLabel is the series pre-selected on the line chart when present
const DefaultHighlightLabel = "自己資産"

// UnlabeledRow replaces an empty row label
const UnlabeledRow = "未設定"

// NumericSeries holds one optional value per period.
// A nil entry marks a blank or unparseable cell and is distinct from zero.
type NumericSeries []*float64

// DisplayRow is a data row as it appeared in the source, for table rendering
type DisplayRow struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Cells returns the label followed by the raw values
func (r DisplayRow) Cells() []string {
	cells := make([]string, 0, len(r.Values)+1)
	cells = append(cells, r.Label)
	return append(cells, r.Values...)
}

// ChartDataset is one line/bar chart series
type ChartDataset struct {
	Label string        `json:"label"`
	Data  NumericSeries `json:"data"`
}

// DatasetOption is a selectable series in the chart legend
type DatasetOption struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// AxisMeta describes the scale of one radar axis
type AxisMeta struct {
	Label    string  `json:"label"`
	MaxValue float64 `json:"max_value"`
}

// RadarDataset is one period on the radar chart.
// Data is scaled to 0..100 per axis (sign preserved), OriginalData is unscaled.
type RadarDataset struct {
	Label        string    `json:"label"`
	Data         []float64 `json:"data"`
	OriginalData []float64 `json:"originalData"`
}

// Dashboard is the complete view model produced from one upload
type Dashboard struct {
	SourceName            string          `json:"source_name,omitempty"`
	Headers               []string        `json:"headers"`
	Rows                  []DisplayRow    `json:"rows"`
	Periods               []string        `json:"periods"`
	ChartDatasets         []ChartDataset  `json:"chart_datasets"`
	DatasetOptions        []DatasetOption `json:"dataset_options"`
	DefaultHighlightLabel string          `json:"default_highlight_label"`
	RadarAxisLabels       []string        `json:"radar_axis_labels"`
	RadarDatasets         []RadarDataset  `json:"radar_datasets"`
	RadarAxisMeta         []AxisMeta      `json:"radar_axis_meta"`
	Error                 string          `json:"error,omitempty"`
}

// EmptyDashboard returns the view shown before an upload or after a failure
func EmptyDashboard() *Dashboard {
	return &Dashboard{
		Headers:               []string{},
		Rows:                  []DisplayRow{},
		Periods:               []string{},
		ChartDatasets:         []ChartDataset{},
		DatasetOptions:        []DatasetOption{},
		DefaultHighlightLabel: DefaultHighlightLabel,
		RadarAxisLabels:       []string{},
		RadarDatasets:         []RadarDataset{},
		RadarAxisMeta:         []AxisMeta{},
	}
}
