package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"metricsboard/pkg/contracts/domain"
)

func TestRowLookup(t *testing.T) {
	first := domain.NumericSeries{num(1)}
	second := domain.NumericSeries{num(2)}

	l := NewRowLookup()
	assert.True(t, l.SetIfAbsent("PQ", first))
	assert.False(t, l.SetIfAbsent("PQ", second), "descriptor keys keep their first series")

	got, ok := l.Get("PQ")
	assert.True(t, ok)
	assert.Equal(t, first, got)

	l.Set("Rev", first)
	l.Set("Rev", second)
	got, _ = l.Get("Rev")
	assert.Equal(t, second, got, "primary labels take the last series")

	assert.Equal(t, []string{"PQ", "Rev"}, l.Keys(), "replacing a key keeps its position")
	assert.Equal(t, 2, l.Len())

	_, ok = l.Get(" Rev")
	assert.False(t, ok, "keys are whitespace sensitive")
}

func TestRowLookup_NilReceiver(t *testing.T) {
	var l *RowLookup

	_, ok := l.Get("P")
	assert.False(t, ok)
	assert.Nil(t, l.Keys())
	assert.Equal(t, 0, l.Len())
}
