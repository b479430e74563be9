package dataprocessing

import (
	"math"

	"metricsboard/pkg/contracts/domain"
)

// radarAxis is a canonical radar metric and the lookup keys tried for it, in order
type radarAxis struct {
	label   string
	aliases []string
}

var radarAxes = []radarAxis{
	{label: "平均単価:P", aliases: []string{"P", "平均単価"}},
	{label: "変動単価:V", aliases: []string{"V", "変動単価"}},
	{label: "売上個数:Q", aliases: []string{"Q", "売上個数"}},
	{label: "売上高:PQ", aliases: []string{"PQ", "売上高"}},
	{label: "固定費:F", aliases: []string{"F", "固定費"}},
	{label: "経常利益:G", aliases: []string{"G", "経常利益"}},
	{label: "自己資本", aliases: []string{"自己資本"}},
}

// RadarAxisCount is the number of canonical radar axes
var RadarAxisCount = len(radarAxes)

// RadarChart holds everything the radar chart needs
type RadarChart struct {
	AxisLabels []string
	Datasets   []domain.RadarDataset
	AxisMeta   []domain.AxisMeta
}

// BuildRadar resolves each canonical axis against the lookup and produces one
// dataset per period. Values are scaled by the axis maximum magnitude taken over
// all periods, so normalized values stay within -100..100. An empty period
// list yields an empty chart.
func BuildRadar(periods []string, lookup *RowLookup) RadarChart {
	chart := RadarChart{
		AxisLabels: []string{},
		Datasets:   []domain.RadarDataset{},
		AxisMeta:   []domain.AxisMeta{},
	}
	if len(periods) == 0 {
		return chart
	}

	resolved := make([]domain.NumericSeries, len(radarAxes))
	for i, axis := range radarAxes {
		resolved[i] = resolveAxis(lookup, axis)
		chart.AxisLabels = append(chart.AxisLabels, axis.label)
		chart.AxisMeta = append(chart.AxisMeta, domain.AxisMeta{
			Label:    axis.label,
			MaxValue: axisScale(resolved[i]),
		})
	}

	for p, period := range periods {
		data := make([]float64, len(radarAxes))
		original := make([]float64, len(radarAxes))
		for i := range radarAxes {
			value := valueAt(resolved[i], p)
			original[i] = value
			data[i] = (value / chart.AxisMeta[i].MaxValue) * 100
		}
		chart.Datasets = append(chart.Datasets, domain.RadarDataset{
			Label:        period,
			Data:         data,
			OriginalData: original,
		})
	}
	return chart
}

// resolveAxis returns the series of the first alias present in the lookup, or nil
func resolveAxis(lookup *RowLookup, axis radarAxis) domain.NumericSeries {
	for _, key := range axis.aliases {
		if series, ok := lookup.Get(key); ok {
			return series
		}
	}
	return nil
}

// axisScale is the largest magnitude in the series, 1.0 when that is zero
func axisScale(series domain.NumericSeries) float64 {
	maxValue := 0.0
	for i := range series {
		maxValue = math.Max(maxValue, math.Abs(valueAt(series, i)))
	}
	if maxValue == 0 {
		return 1.0
	}
	return maxValue
}

// valueAt folds missing and out-of-range entries to zero
func valueAt(series domain.NumericSeries, i int) float64 {
	if i < 0 || i >= len(series) || series[i] == nil {
		return 0
	}
	return *series[i]
}
