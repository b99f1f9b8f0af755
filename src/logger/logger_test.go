package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, "WARNING", "Engine")

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warning("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[Engine] WARNING: shown 3")
	assert.Contains(t, out, "[Engine] ERROR: shown 4")
}

func TestLoggerNamedSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := NewLoggerWithWriter(&buf, "DEBUG", "Root")
	child := root.Named("Child")

	child.Debug("tick")
	assert.Contains(t, buf.String(), "[Child] DEBUG: tick")
}

func TestLoggerCriticalExits(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, "", "Main")
	code := -1
	l.exit = func(c int) { code = c }

	l.Critical("boom")
	require.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "CRITICAL: boom")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarning, ParseLevel("WARN"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
