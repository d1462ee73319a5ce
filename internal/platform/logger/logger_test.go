package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", "production")

	log.Info("deal checked", "deal_id", "D1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "deal checked", line["msg"])
	assert.Equal(t, "D1", line["deal_id"])
}

func TestNewLocalWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "debug", "local")

	log.Debug("listing files")

	assert.Contains(t, buf.String(), "msg=\"listing files\"")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
