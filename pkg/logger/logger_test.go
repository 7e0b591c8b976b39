package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Format: "json", Output: &buf})

	l.Error(errors.New("boom"), "seed failed", "step", "patients")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "seed failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "patients", entry["step"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Format: "json", Output: &buf})

	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
}
