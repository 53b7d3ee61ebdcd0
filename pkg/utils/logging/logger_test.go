package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/utils/logging"
)

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, slog.LevelDebug, logging.ParseLogLevel("debug"))
	gt.Equal(t, slog.LevelDebug, logging.ParseLogLevel("DEBUG"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel(""))
	gt.Equal(t, slog.LevelWarn, logging.ParseLogLevel("warning"))
	gt.Equal(t, slog.LevelError, logging.ParseLogLevel("error"))
	gt.Equal(t, slog.LevelInfo, logging.ParseLogLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("json")
	gt.NoError(t, err)
	gt.Equal(t, logging.FormatJSON, f)

	f, err = logging.ParseFormat("")
	gt.NoError(t, err)
	gt.Equal(t, logging.FormatAuto, f)

	_, err = logging.ParseFormat("xml")
	gt.Error(t, err)
}

func TestAutoFormatUsesJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(slog.LevelInfo, &buf)
	logger.Info("hello", "site_id", "s-1")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record)).Required()
	gt.Equal(t, "hello", record["msg"])
	gt.Equal(t, "s-1", record["site_id"])
}
