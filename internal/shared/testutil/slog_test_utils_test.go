package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("table parsed", slog.Int("rows", 3))
		logger.Error("parse failed", slog.String("reason", "empty"))

		assert.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("table parsed"))
		assert.True(t, handler.ContainsAttr("rows", int64(3)))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("keeps bound attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		scoped := logger.With(slog.String("component", "dashboard"))
		scoped.Info("built")
		logger.Info("unscoped")

		records := handler.GetRecords()
		require.Len(t, records, 2)
		assert.Equal(t, "dashboard", records[0].Attrs["component"])
		assert.NotContains(t, records[1].Attrs, "component")
	})

	t.Run("flattens groups", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("upload").Info("received", slog.String("name", "a.csv"))

		assert.True(t, handler.ContainsAttr("upload.name", "a.csv"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Warn("one")
		handler.Clear()
		assert.Zero(t, handler.Count())
	})
}
