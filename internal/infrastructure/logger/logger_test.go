package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")
	log.Debug("hidden")
	log.Info("bills generated", slog.Int("created", 2))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "bills generated", line["msg"])
	assert.EqualValues(t, 2, line["created"])
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	assert.Equal(t, "abc123", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
