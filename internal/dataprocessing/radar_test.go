package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricsboard/pkg/contracts/domain"
)

func TestBuildRadar_EmptyPeriods(t *testing.T) {
	lookup := NewRowLookup()
	lookup.Set("P", domain.NumericSeries{num(1)})

	chart := BuildRadar(nil, lookup)

	assert.Empty(t, chart.AxisLabels)
	assert.Empty(t, chart.Datasets)
	assert.Empty(t, chart.AxisMeta)
	assert.NotNil(t, chart.Datasets, "empty slices encode as [] rather than null")
}

func TestBuildRadar_AxisOrderAndShape(t *testing.T) {
	chart := BuildRadar([]string{"2021", "2022", "2023"}, NewRowLookup())

	assert.Equal(t, []string{
		"平均単価:P", "変動単価:V", "売上個数:Q", "売上高:PQ", "固定費:F", "経常利益:G", "自己資本",
	}, chart.AxisLabels)
	require.Len(t, chart.AxisMeta, RadarAxisCount)
	require.Len(t, chart.Datasets, 3)

	for i, ds := range chart.Datasets {
		assert.Equal(t, []string{"2021", "2022", "2023"}[i], ds.Label)
		assert.Len(t, ds.Data, RadarAxisCount)
		assert.Len(t, ds.OriginalData, RadarAxisCount)
	}
	for _, meta := range chart.AxisMeta {
		assert.Equal(t, 1.0, meta.MaxValue, "unresolved axes fall back to a neutral scale")
	}
}

func TestBuildRadar_Normalization(t *testing.T) {
	lookup := NewRowLookup()
	lookup.Set("P", domain.NumericSeries{num(50), num(-200), nil})
	lookup.Set("売上高", domain.NumericSeries{num(10), num(20), num(40)})
	lookup.Set("固定費", domain.NumericSeries{num(0), num(0), num(0)})

	chart := BuildRadar([]string{"a", "b", "c"}, lookup)

	assert.Equal(t, 200.0, chart.AxisMeta[0].MaxValue)
	assert.Equal(t, 40.0, chart.AxisMeta[3].MaxValue)
	assert.Equal(t, 1.0, chart.AxisMeta[4].MaxValue, "all-zero axis is flattened to 1.0")

	first := chart.Datasets[0]
	assert.Equal(t, 25.0, first.Data[0])
	assert.Equal(t, 50.0, first.OriginalData[0])
	assert.Equal(t, 25.0, first.Data[3])

	second := chart.Datasets[1]
	assert.Equal(t, -100.0, second.Data[0], "sign is preserved")
	assert.Equal(t, -200.0, second.OriginalData[0])

	third := chart.Datasets[2]
	assert.Equal(t, 0.0, third.Data[0], "missing value folds to zero")
	assert.Equal(t, 0.0, third.OriginalData[0])
	assert.Equal(t, 100.0, third.Data[3])
}

func TestBuildRadar_AliasPrecedence(t *testing.T) {
	lookup := NewRowLookup()
	lookup.Set("平均単価", domain.NumericSeries{num(1)})
	lookup.Set("P", domain.NumericSeries{num(2)})

	chart := BuildRadar([]string{"2021"}, lookup)

	assert.Equal(t, 2.0, chart.Datasets[0].OriginalData[0], "P is tried before 平均単価")
}

func TestBuildRadar_ShortSeries(t *testing.T) {
	lookup := NewRowLookup()
	lookup.Set("G", domain.NumericSeries{num(8)})

	chart := BuildRadar([]string{"2021", "2022"}, lookup)

	assert.Equal(t, 8.0, chart.Datasets[0].OriginalData[5])
	assert.Equal(t, 0.0, chart.Datasets[1].OriginalData[5], "out of range index folds to zero")
}

func TestBuildRadar_ScaleInvariance(t *testing.T) {
	base := []float64{3, -7, 11, 0.5}
	periods := []string{"p1", "p2", "p3", "p4"}
	const k = 4.0

	build := func(scale float64) RadarChart {
		series := make(domain.NumericSeries, len(base))
		for i, v := range base {
			series[i] = num(v * scale)
		}
		lookup := NewRowLookup()
		lookup.Set("Q", series)
		return BuildRadar(periods, lookup)
	}

	plain := build(1)
	scaled := build(k)

	for p := range periods {
		assert.InDelta(t, plain.Datasets[p].Data[2], scaled.Datasets[p].Data[2], 1e-9)
		assert.InDelta(t, plain.Datasets[p].OriginalData[2]*k, scaled.Datasets[p].OriginalData[2], 1e-9)
	}
	assert.InDelta(t, plain.AxisMeta[2].MaxValue*k, scaled.AxisMeta[2].MaxValue, 1e-9)
}

func TestBuildRadar_FromParsedTable(t *testing.T) {
	input := "項目,2021,2022\n" +
		"平均単価,P,100,120\n" +
		"売上高,PQ,1000,1500\n" +
		"自己資本,,300,-150\n"

	table, err := ParseCSV([]byte(input))
	require.NoError(t, err)

	chart := BuildRadar(table.Periods, table.Lookup)

	require.Len(t, chart.Datasets, 2)
	assert.Equal(t, []float64{100, 0, 0, 1000, 0, 0, 300}, chart.Datasets[0].OriginalData)
	assert.InDelta(t, 100.0, chart.Datasets[1].Data[0], 1e-9)
	assert.InDelta(t, -50.0, chart.Datasets[1].Data[6], 1e-9)
}

func TestBuildRadar_NilLookup(t *testing.T) {
	chart := BuildRadar([]string{"2021"}, nil)

	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, make([]float64, RadarAxisCount), chart.Datasets[0].Data)
}
