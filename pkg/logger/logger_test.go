package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLoggerSuppressesDebugUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)

	l.Debug("hidden", nil)
	assert.Empty(t, buf.String())

	l.Warn("shown", map[string]any{"status": 401})
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "status=401")
}

func TestWriterLoggerVerboseEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, true)

	l.Debug("request sent", map[string]any{"request_id": "abc"})
	assert.Contains(t, buf.String(), "request sent")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestWriterLoggerAttachesErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)

	l.Error("dispatch failed", errors.New("connection refused"))
	assert.Contains(t, buf.String(), "connection refused")
}

func TestDebugHelper(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, true)

	Debug(false, l, "disabled", nil)
	assert.Empty(t, buf.String())

	Debug(true, l, "enabled", nil)
	assert.Contains(t, buf.String(), "enabled")

	assert.NotPanics(t, func() { Debug(true, nil, "msg", nil) })
}

func TestNewWriterLoggerNilWriter(t *testing.T) {
	assert.IsType(t, NopLogger{}, NewWriterLogger(nil, true))
}
