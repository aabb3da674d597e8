package logger

import (
	"io"
	"os"

	"github.com/baditaflorin/go_doc_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// Level is the minimum severity forwarded to the underlying logger.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Options configures a StdLogger.
type Options struct {
	// Output receives log records. Defaults to os.Stderr because stdout carries the report.
	Output io.Writer
	JSON   bool
	Level  Level
}

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger l.Logger
	level  Level
}

// NewStdLogger creates a new standard logger adapter with default configuration.
func NewStdLogger() (ports.Logger, error) {
	return NewCustomStdLogger(Options{Level: LevelWarn})
}

// NewCustomStdLogger creates a new standard logger with custom configuration.
func NewCustomStdLogger(opts Options) (ports.Logger, error) {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  opts.JSON,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  3,
		AddSource:   opts.Level == LevelDebug,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}

	return &StdLogger{logger: logger, level: opts.Level}, nil
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelDebug {
		s.logger.Debug(msg, keysAndValues...)
	}
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelInfo {
		s.logger.Info(msg, keysAndValues...)
	}
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	if s.level <= LevelWarn {
		s.logger.Warn(msg, keysAndValues...)
	}
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}

// FromExisting creates a new StdLogger from an existing l.Logger.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger, level: LevelDebug}
}

// NopLogger discards everything.
type NopLogger struct{}

// NewNop returns a logger that discards all records.
func NewNop() ports.Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }
