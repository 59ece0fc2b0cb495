package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used by the library.
type Logger interface {
	Info(msg string, obj any)
	Warn(msg string, obj any)
	Debug(msg string, obj any)
	Error(msg string, obj any)
}

// NopLogger discards all log messages.
type NopLogger struct{}

func (NopLogger) Info(string, any)  {}
func (NopLogger) Warn(string, any)  {}
func (NopLogger) Debug(string, any) {}
func (NopLogger) Error(string, any) {}

type zerologLogger struct {
	zl zerolog.Logger
}

// NewWriterLogger builds a console logger that writes to an io.Writer.
// Debug lines are emitted only when verbose is set.
func NewWriterLogger(w io.Writer, verbose bool) Logger {
	if w == nil {
		return NopLogger{}
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return zerologLogger{zl: zl}
}

func (l zerologLogger) write(e *zerolog.Event, msg string, obj any) {
	switch v := obj.(type) {
	case nil:
	case map[string]any:
		e = e.Fields(v)
	case error:
		e = e.Err(v)
	default:
		e = e.Interface("obj", v)
	}
	e.Msg(msg)
}

func (l zerologLogger) Info(msg string, obj any)  { l.write(l.zl.Info(), msg, obj) }
func (l zerologLogger) Warn(msg string, obj any)  { l.write(l.zl.Warn(), msg, obj) }
func (l zerologLogger) Debug(msg string, obj any) { l.write(l.zl.Debug(), msg, obj) }
func (l zerologLogger) Error(msg string, obj any) { l.write(l.zl.Error(), msg, obj) }

// Debug writes a debug log when enabled and logger is non-nil.
func Debug(enabled bool, logger Logger, msg string, obj any) {
	if !enabled || logger == nil {
		return
	}
	logger.Debug(msg, obj)
}
