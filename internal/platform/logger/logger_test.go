package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("nonsense"))
}

func TestLogger_JSON_MergesFieldsAndStringifiesErrors(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "medivault", Output: &buf})

	l.With(map[string]any{"request_id": "r-1"}).Warn("audit write failed", map[string]any{
		"error": errors.New("db down"),
		"":      "ignored",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit write failed", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "medivault", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "db down", entry["error"])
	assert.NotContains(t, entry, "")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Error, Format: FormatText, Output: &buf})

	l.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	l.Error("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
