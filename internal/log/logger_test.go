package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = NewOutput(&buf)
	return New(cfg), &buf
}

func TestNew_JSONIncludesService(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("users fetched", "count", 6)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "users fetched", entry["msg"])
	assert.Equal(t, "eduplayctl", entry["service"])
	assert.EqualValues(t, 6, entry["count"])
}

func TestNew_TextFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatText)

	logger.Debug("request", "method", "GET")

	assert.Contains(t, buf.String(), "msg=request")
	assert.Contains(t, buf.String(), "method=GET")
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatJSON)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestWithError_ConsoleError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	err := conerr.NewNotLoggedInError()
	logger.WithError(err).Error("refresh failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "SESSION-001", entry["error_code"])
	assert.Equal(t, "not logged in", entry["error"])
	assert.NotEmpty(t, entry["suggestions"])
}

func TestWithError_WrappedConsoleError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	inner := conerr.New(conerr.ErrCodeAPIDecode, "bad body")
	logger.LogError("list failed", errors.Join(errors.New("users"), inner))

	assert.Contains(t, buf.String(), "API-003")
}

func TestWithError_PlainAndNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	assert.Same(t, logger, logger.WithError(nil))
	logger.LogError("ignored", nil)
	assert.Empty(t, buf.String())

	logger.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))

	assert.Equal(t, FormatText, ParseFormat("console"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestOpenFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")

	out, closer, err := OpenFileOutput(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Output = out
	New(cfg).Info("console started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "console started"))
}

func TestDefaultLogger(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	custom := Discard()
	SetDefaultLogger(custom)
	assert.Same(t, custom, DefaultLogger())

	defaultLogger = nil
	assert.NotNil(t, DefaultLogger())
}
