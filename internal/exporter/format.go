package exporter

import "strconv"

const (
	radarAxisTitle = "指標"
	radarMaxTitle  = "最大値"
)

// formatFloat prints the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
