package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	// Reinitialize logger with test output
	logger = nil
	InitLogger(level)

	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:  "info log",
			level: "info",
			logFn: func() {
				Info("test info message")
			},
			contains: []string{"test info message"},
		},
		{
			name:  "debug log with debug level",
			level: "debug",
			logFn: func() {
				Debug("test debug message")
			},
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:  "debug log with info level",
			level: "info",
			logFn: func() {
				Debug("test debug message")
			},
			excludes: []string{"test debug message"},
		},
		{
			name:  "error log",
			level: "error",
			logFn: func() {
				Error("test error message")
			},
			contains: []string{"test error message", "level=ERROR"},
		},
		{
			name:  "warn log with fields",
			level: "warn",
			logFn: func() {
				Warn("test warning", Fields{"key1": "value1", "key2": 42})
			},
			contains: []string{"test warning", "level=WARN", "key1=value1", "key2=42"},
		},
		{
			name:  "success log",
			level: "info",
			logFn: func() {
				Success("operation completed")
			},
			contains: []string{"operation completed", "status=success"},
		},
		{
			name:  "formatted info log",
			level: "info",
			logFn: func() {
				Infof("formatted %s", "message")
			},
			contains: []string{"formatted message"},
		},
		{
			name:  "unknown level falls back to info",
			level: "bogus",
			logFn: func() {
				Info("fallback message")
				Debug("hidden message")
			},
			contains: []string{"fallback message"},
			excludes: []string{"hidden message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want, "log output should contain expected message")
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, output, notWant, "log output should not contain excluded message")
			}
		})
	}
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
		lg.Info("test message")
	})
}

func TestInitLoggerWithFile(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logFile := filepath.Join(t.TempDir(), "refetch.log")
	logger = nil
	InitLoggerWithFile("info", logFile)
	Info("written to both")

	assert.Contains(t, buf.String(), "written to both")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to both")
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Fields
		expect map[string]interface{}
	}{
		{
			name:   "single field",
			fields: []Fields{{"key1": "value1"}},
			expect: map[string]interface{}{"key1": "value1"},
		},
		{
			name:   "multiple fields",
			fields: []Fields{{"key1": "value1"}, {"key2": 123, "key3": true}},
			expect: map[string]interface{}{"key1": "value1", "key2": 123, "key3": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := mergeFields(tt.fields...)
			result := make(map[string]interface{})
			for i := 0; i < len(attrs); i += 2 {
				key := attrs[i].(string)
				result[key] = attrs[i+1]
			}
			assert.Equal(t, tt.expect, result)
		})
	}
}
