package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNewLogger_MasksFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "otpkit", Writer: &buf, MaskFields: []string{"Token"}})

	logger.Info("imported",
		"secret", "JBSWY3DPEHPK3PXP",
		"token", "abc",
		"name", "alice",
		slog.Group("entry", "password", "hunter2", "issuer", "Acme"),
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "imported", line["msg"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "otpkit", line["service"])
	assert.Equal(t, "***", line["secret"])
	assert.Equal(t, "***", line["token"])
	assert.Equal(t, "alice", line["name"])

	entry, ok := line["entry"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", entry["password"])
	assert.Equal(t, "Acme", entry["issuer"])
}

func TestNewLogger_MasksWithAttrsAndMaps(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Writer: &buf}).With("key", "raw")

	logger.Warn("fields", "meta", map[string]string{"Secret": "x", "label": "y"})

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["key"])
	meta, ok := line["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", meta["Secret"])
	assert.Equal(t, "y", meta["label"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Writer: &buf, Level: "warn"})

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Error("shown")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNoop(t *testing.T) {
	ins, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()
	assert.NotNil(t, ctx)

	counter, err := ins.Meter("test").Int64Counter("entries")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.Nil(t, ins.LoggerProvider())
	assert.NoError(t, ins.Shutdown(context.Background()))
}
