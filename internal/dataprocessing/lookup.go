package dataprocessing

import "metricsboard/pkg/contracts/domain"

// RowLookup maps row labels and descriptor aliases to their numeric series.
// Keys keep first-insertion order; several keys may share one series.
type RowLookup struct {
	keys   []string
	series map[string]domain.NumericSeries
}

// NewRowLookup creates an empty lookup
func NewRowLookup() *RowLookup {
	return &RowLookup{series: make(map[string]domain.NumericSeries)}
}

// Set stores the series under key, replacing any previous entry.
// Used for primary row labels, where the last row wins.
func (l *RowLookup) Set(key string, s domain.NumericSeries) {
	if _, ok := l.series[key]; !ok {
		l.keys = append(l.keys, key)
	}
	l.series[key] = s
}

// SetIfAbsent stores the series only when key is not present yet and
// reports whether it did. Used for descriptor aliases: later rows carrying
// the same descriptor are ignored on purpose.
func (l *RowLookup) SetIfAbsent(key string, s domain.NumericSeries) bool {
	if _, ok := l.series[key]; ok {
		return false
	}
	l.keys = append(l.keys, key)
	l.series[key] = s
	return true
}

// Get returns the series stored under key
func (l *RowLookup) Get(key string) (domain.NumericSeries, bool) {
	if l == nil {
		return nil, false
	}
	s, ok := l.series[key]
	return s, ok
}

// Keys returns the keys in insertion order
func (l *RowLookup) Keys() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Len returns the number of keys
func (l *RowLookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.keys)
}
