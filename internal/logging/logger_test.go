package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, levelName string) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	SetOutput(&buf)
	InitWithLevel(levelName)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		InitWithLevel("info")
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "trace", want: slog.LevelDebug},
		{name: "DEBUG", want: slog.LevelDebug},
		{name: "info", want: slog.LevelInfo},
		{name: "", want: slog.LevelInfo},
		{name: "warning", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestColorTextHandlerLevels(t *testing.T) {
	buf := captureOutput(t, "info")

	Debug("hidden")
	Info("shown", "count", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO shown count=3")

	buf.Reset()
	InitWithLevel("debug")
	Debug("now visible")
	assert.Contains(t, buf.String(), "DEBUG now visible")
	assert.True(t, IsDebugEnabled())
}

func TestContextualLogger(t *testing.T) {
	buf := captureOutput(t, "info")

	l := NewContextualLogger("vm-1", "parser")
	l.Warn("bad line", "line", 4)
	out := buf.String()
	assert.Contains(t, out, "WARN bad line")
	assert.Contains(t, out, "component=parser")
	assert.Contains(t, out, "target=vm-1")
	assert.Contains(t, out, "line=4")

	buf.Reset()
	NewContextualLogger("", "interp").Info("pass")
	assert.NotContains(t, buf.String(), "target=")
}

func TestWithAttrsIsKept(t *testing.T) {
	buf := captureOutput(t, "info")
	slog.Default().With("run", "abc").Info("hello")
	assert.Contains(t, buf.String(), "run=abc")
}

func TestFileOutput(t *testing.T) {
	_ = captureOutput(t, "info")
	path := filepath.Join(t.TempDir(), "macro.log")

	EnableFileOutput(path, 1, 1)
	Info("to file", "answer", 42)
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "to file", record["msg"])
	assert.Equal(t, float64(42), record["answer"])
}

func TestLogOperation(t *testing.T) {
	_ = captureOutput(t, "debug")
	called := false
	err := LogOperation("op", "target", func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	err = LogOperation("op", "target", func() error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, "🚀 Starting: run", StartTemplate.Format("run"))
	assert.Equal(t, "⏳ [DRY-RUN] Would wait: 5ms", DryRunWaitTemplate.Format("5ms"))
	assert.Equal(t, "✓ Matched: 100%", MatchedTemplate.Formatf("%d%%", 100))

	buf := captureOutput(t, "info")
	Complete("script")
	assert.Contains(t, buf.String(), "Completed: script")
}

func TestScreenCompareTemplates(t *testing.T) {
	buf := captureOutput(t, "info")

	CompareScreen("refs/login.png", 1, 2, 4, 3)
	ScreenCompared("refs/login.png", 50, 95, false)

	out := buf.String()
	assert.Contains(t, out, "Comparing screen: refs/login.png at 4x3+1+2")
	assert.Contains(t, out, "No match: refs/login.png 50.00% < 95.00%")
}
