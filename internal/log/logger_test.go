package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"clipcast/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText())

	cases := []struct {
		log   func()
		level string
		msg   string
	}{
		{func() { l.Info("controller created") }, "INFO", "controller created"},
		{func() { l.Warn("clipboard unavailable") }, "WARN", "clipboard unavailable"},
		{func() { l.Error("upload rejected") }, "ERROR", "upload rejected"},
		{func() { l.Infof("%d files selected", 2) }, "INFO", "2 files selected"},
		{func() { l.Warnf("retrying %s", "tmpfiles.org") }, "WARN", "retrying tmpfiles.org"},
	}
	for _, c := range cases {
		buf.Reset()
		c.log()
		line := buf.String()
		assert.Contains(t, line, c.level)
		assert.Contains(t, line, c.msg)
	}
}

func TestDebugGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText())
	t.Cleanup(func() { SetDebug(false) })

	SetDebug(false)
	l.Debug("payload size")
	l.Debugf("payload %d bytes", 12)
	assert.Empty(t, buf.String())

	SetDebug(true)
	l.Debugf("payload %d bytes", 12)
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "payload 12 bytes")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText())

	l.With(F("session", "3f2a"), F("files", 3)).Info("upload started")
	output := buf.String()
	assert.Contains(t, output, "upload started")
	assert.Contains(t, output, "session=3f2a")
	assert.Contains(t, output, "files=3")
	buf.Reset()

	// Entries are immutable; With returns a copy
	base := l.With(F("op", "paste"))
	base.With(F("chars", 12)).Info("pasted")
	base.Info("bare")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "chars=12")
	assert.Contains(t, lines[0], "op=paste")
	assert.NotContains(t, lines[1], "chars=")
	assert.Contains(t, lines[1], "op=paste")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.Info("file QR generated")
	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))

	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "file QR generated", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry, "caller")
	buf.Reset()

	l.With(F("url", "https://tmpfiles.org/1/a.txt"), F("bytes", 2048)).Warn("slow upload")
	logEntry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))

	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "https://tmpfiles.org/1/a.txt", logEntry["url"])
	assert.Equal(t, float64(2048), logEntry["bytes"])
	buf.Reset()

	l.With(F("cause", fmt.Errorf("connection reset"))).Error("upload failed")
	logEntry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "connection reset", logEntry["cause"])
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf), WithText())
	t.Cleanup(func() { logger = originalLogger })

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "plain",
			err:  fmt.Errorf("dial tcp: timeout"),
			want: []string{"dial tcp: timeout", "error_kind=0"},
		},
		{
			name: "file",
			err:  errors.NewFileError("file not found", "slides.pdf", errors.FileNotFound, nil),
			want: []string{"file not found: slides.pdf", "path=slides.pdf", "error_kind=1"},
		},
		{
			name: "config",
			err:  errors.NewConfigError("invalid value", "upload.endpoint", errors.InvalidConfig, nil),
			want: []string{"param=upload.endpoint", "error_kind=5"},
		},
		{
			name: "upload",
			err:  errors.NewUploadError("status", fmt.Errorf("413 Request Entity Too Large")),
			want: []string{"upload failed: status: 413 Request Entity Too Large", "stage=status", "error_kind=8"},
		},
		{
			name: "validation",
			err:  errors.NewValidationError("select at least one file", "files"),
			want: []string{"field=files", "error_kind=6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			LogWithError(tt.err).Warn("operation failed")
			out := buf.String()
			assert.Contains(t, out, "operation failed")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}

	buf.Reset()
	LogError(errors.NewClipboardError(nil), "paste failed")
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "error_kind=7")
}

func TestCallerInfo(t *testing.T) {
	// Capture output
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText())

	// Log message and check that caller info is included
	l.Info("caller test")
	output := buf.String()
	assert.Contains(t, output, "logger_test.go:")
	buf.Reset()
}

func TestFileOutput(t *testing.T) {
	// Create a temporary log file
	tmpFile, err := os.CreateTemp("", "logtest*.log")
	require.NoError(t, err)
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	// We need to save the original stdout
	originalStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Save original logger and configure a new one with our file
	originalLogger := logger
	Configure(WithFile(tmpFile.Name()))

	// Set cleanup
	defer func() {
		// Restore stdout
		w.Close()
		os.Stdout = originalStdout

		// Close file before restoring original logger
		if logger.file != nil {
			logger.file.Close()
		}
		logger = originalLogger
	}() // Restore when test completes

	// Log a message
	Info("file test message")
	w.Close() // Close the writer to flush output

	// Capture stdout output
	var stdoutBuf bytes.Buffer
	io.Copy(&stdoutBuf, r)

	// Check stdout
	assert.Contains(t, stdoutBuf.String(), "file test message")

	// Check file
	fileContent, err := os.ReadFile(tmpFile.Name())
	require.NoError(t, err)
	assert.Contains(t, string(fileContent), "file test message")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText())

	// A nil context carries no fields
	l.WithContext(nil).Info("context message")
	assert.Contains(t, buf.String(), "context message")
	buf.Reset()

	ctx := NewContext(context.Background(), F("session", "abc"))
	ctx = NewContext(ctx, F("mode", "file"))
	l.WithContext(ctx).Info("with session")
	output := buf.String()
	assert.Contains(t, output, "session=abc")
	assert.Contains(t, output, "mode=file")
}

func TestNestedErrors(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf), WithText())
	defer func() { logger = originalLogger }()

	// A packaging failure caused by an unreadable file
	readErr := fmt.Errorf("input/output error")
	fileErr := errors.NewFileError("failed to read file", "/tmp/a.txt", errors.FileReadFailed, readErr)
	uploadErr := errors.NewUploadError("package", fileErr)

	LogWithError(uploadErr).Error("upload failed")
	output := buf.String()

	assert.Contains(t, output, "upload failed: package: failed to read file: /tmp/a.txt: input/output error")
	assert.Contains(t, output, "error_kind=8")
	assert.Contains(t, output, "stage=package")
	assert.Contains(t, output, "path=/tmp/a.txt")
}

// Test global configuration
func TestConfigure(t *testing.T) {
	// Save the original logger to restore later
	originalLogger := logger

	// Capture output
	var buf bytes.Buffer

	// Configure global logger
	Configure(WithOutput(&buf), WithJSON())

	// Use global functions
	Info("global config test")

	// Verify it used JSON format
	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry)
	require.NoError(t, err)
	assert.Equal(t, "global config test", logEntry["message"])

	// Restore original logger
	logger = originalLogger
}

// Test that we correctly handle nil errors
func TestNilErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	// Setup a new global logger with our buffer
	originalLogger := logger // Save original
	Configure(WithOutput(&buf), WithText())
	defer func() { logger = originalLogger }() // Restore when test completes

	// Should not panic
	LogWithError(nil).Error("nil error test")
	output := buf.String()
	assert.Contains(t, output, "nil error test")
	assert.Contains(t, output, "error=<nil>")
}

func TestWithLevel(t *testing.T) {
	defer SetDebug(false)
	SetDebug(false)

	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithText(), WithLevel("warn"))

	l.Info("quiet")
	assert.Empty(t, buf.String())
	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
	buf.Reset()

	l = NewLogger(WithOutput(&buf), WithText(), WithLevel("debug"))
	assert.True(t, IsDebug())
	l.Debug("details")
	assert.Contains(t, buf.String(), "details")
	buf.Reset()

	// Unknown levels keep the default
	l = NewLogger(WithOutput(&buf), WithText(), WithLevel("chatty"))
	l.Info("still here")
	assert.Contains(t, buf.String(), "still here")
}
