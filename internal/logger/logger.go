// Package logger provides a simple logging interface for gitsetup components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
//
// User-facing wizard output goes through the ui package; this logger is for
// diagnostics such as tracing every external command the wizard runs.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "GITSETUP_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

var (
	debugLabel = color.New(color.FgHiBlack).SprintFunc()
	warnLabel  = color.New(color.FgYellow).SprintFunc()
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// envLogger writes to stderr (or a supplied writer).
// Debug messages are only printed when GITSETUP_DEBUG is set.
type envLogger struct {
	mu     sync.Mutex
	prefix string
	out    io.Writer
}

// NewEnvLogger creates a stderr logger that respects GITSETUP_DEBUG.
// The prefix is prepended to all log messages (e.g., "[shell]").
func NewEnvLogger(prefix string) Logger {
	return NewWriterLogger(prefix, os.Stderr)
}

// NewWriterLogger is NewEnvLogger with an explicit destination.
func NewWriterLogger(prefix string, w io.Writer) Logger {
	return &envLogger{prefix: prefix, out: w}
}

// DebugEnabled reports whether GITSETUP_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.write(debugLabel("DEBUG:"), format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.write("", format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.write(warnLabel("WARN:"), format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.write(errorLabel("ERROR:"), format, args...)
}

func (l *envLogger) write(label, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf(format, args...)
	if label != "" {
		line = label + " " + line
	}
	if l.prefix != "" {
		line = l.prefix + " " + line
	}
	fmt.Fprintln(l.out, line)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any captured message contains substr.
func (l *BufferLogger) Contains(substr string) bool {
	for _, m := range l.Messages {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger = NewEnvLogger("")

// Default returns the package-level logger.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	defaultLogger = l
}
