package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/insights/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]logging.Format{
		"":        logging.FormatAuto,
		"auto":    logging.FormatAuto,
		"console": logging.FormatConsole,
		"JSON":    logging.FormatJSON,
	} {
		got, err := logging.ParseFormat(input)
		gt.NoError(t, err)
		gt.Equal(t, want, got)
	}

	_, err := logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, slog.LevelDebug, logging.ParseLogLevel("DEBUG"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel(""))
	gt.Equal(t, slog.LevelWarn, logging.ParseLogLevel("warning"))
	gt.Equal(t, slog.LevelError, logging.ParseLogLevel("error"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel("verbose"))
}

func TestNewLoggerWithFormat(t *testing.T) {
	t.Run("auto on a buffer is JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLogger(slog.LevelInfo, &buf)
		logger.Info("dataset loaded", "rows", 5)

		var record map[string]any
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
		gt.Equal(t, "dataset loaded", record["msg"])
		gt.Equal(t, 5.0, record["rows"])
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelWarn, &buf, logging.FormatJSON)
		logger.Info("hidden")
		gt.Equal(t, 0, buf.Len())
	})

	t.Run("console writes text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelInfo, &buf, logging.FormatConsole)
		logger.Info("refresh done")
		gt.S(t, buf.String()).Contains("refresh done")
	})
}
