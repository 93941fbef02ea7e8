package manager

import (
	"fmt"
	"strings"
)

// Logger is the minimal logging contract the manager package depends on. A
// zap-backed adapter lives in internal/logging; tests may supply a fake.
type Logger interface {
	Trace(args ...any)
	Info(args ...any)
	Warn(args ...any)
}

// captureLogger wraps an injected Logger, forwarding every call to it with the
// message prefixed "<name>: " (name is the version) and also appending the
// unprefixed message, prefixed "[LEVEL] ", to an internal buffer. Flush joins
// the buffer with newlines and resets it. A new captureLogger is created per
// version transaction; it is never shared across versions.
type captureLogger struct {
	wrapped Logger
	name    string
	lines   []string
}

func newCaptureLogger(wrapped Logger, name string) *captureLogger {
	return &captureLogger{wrapped: wrapped, name: name}
}

func (l *captureLogger) Trace(args ...any) { l.emit("TRACE", args...) }
func (l *captureLogger) Info(args ...any)  { l.emit("INFO", args...) }
func (l *captureLogger) Warn(args ...any)  { l.emit("WARN", args...) }

func (l *captureLogger) emit(level string, args ...any) {
	msg := l.name + ": " + fmtArgs(args...)

	switch level {
	case "TRACE":
		l.wrapped.Trace(msg)
	case "INFO":
		l.wrapped.Info(msg)
	case "WARN":
		l.wrapped.Warn(msg)
	}

	l.lines = append(l.lines, "["+level+"] "+fmtArgs(args...))
}

// Flush returns the captured lines joined by "\n" and resets the buffer.
func (l *captureLogger) Flush() string {
	text := strings.Join(l.lines, "\n")
	l.lines = nil

	return text
}

func fmtArgs(args ...any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}

	return fmt.Sprint(args...)
}
