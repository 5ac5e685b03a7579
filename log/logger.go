package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents logging severity
type LogLevel int

const (
	// LogLevelDebug for detailed debugging information
	LogLevelDebug LogLevel = iota
	// LogLevelInfo for general informational messages
	LogLevelInfo
	// LogLevelWarn for warning messages
	LogLevelWarn
	// LogLevelError for error messages
	LogLevelError
	// LogLevelNone disables all logging
	LogLevelNone
)

// Logger is the printf-style leveled logger used by the pipeline stages and
// service clients.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger implements Logger using Go's standard log package
type DefaultLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewDefaultLogger creates a new default logger writing to stderr
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return NewCustomLogger(os.Stderr, level)
}

// NewCustomLogger creates a logger with custom output
func NewCustomLogger(out io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(out, "[researcher] ", log.LstdFlags),
		level:  level,
	}
}

// Debug logs debug messages
func (l *DefaultLogger) Debug(format string, v ...any) {
	l.logf(LogLevelDebug, format, v...)
}

// Info logs informational messages
func (l *DefaultLogger) Info(format string, v ...any) {
	l.logf(LogLevelInfo, format, v...)
}

// Warn logs warning messages
func (l *DefaultLogger) Warn(format string, v ...any) {
	l.logf(LogLevelWarn, format, v...)
}

// Error logs error messages
func (l *DefaultLogger) Error(format string, v ...any) {
	l.logf(LogLevelError, format, v...)
}

func (l *DefaultLogger) logf(level LogLevel, format string, v ...any) {
	if l.level <= level && level != LogLevelNone {
		l.logger.Printf("["+level.String()+"] "+format, v...)
	}
}

// NoOpLogger is a logger that doesn't log anything
type NoOpLogger struct{}

// Debug does nothing
func (l *NoOpLogger) Debug(format string, v ...any) {}

// Info does nothing
func (l *NoOpLogger) Info(format string, v ...any) {}

// Warn does nothing
func (l *NoOpLogger) Warn(format string, v ...any) {}

// Error does nothing
func (l *NoOpLogger) Error(format string, v ...any) {}

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// levelNames maps accepted level names, lower-cased, to levels.
var levelNames = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"":        LogLevelInfo,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
	"none":    LogLevelNone,
	"off":     LogLevelNone,
	"disable": LogLevelNone,
}

// gologNames are the level names understood by golog.
var gologNames = map[LogLevel]string{
	LogLevelDebug: "debug",
	LogLevelInfo:  "info",
	LogLevelWarn:  "warn",
	LogLevelError: "error",
	LogLevelNone:  "disable",
}

// ParseLevel converts a level name such as "debug" or "WARN" to a LogLevel.
// Unknown names fall back to info with an error.
func ParseLevel(name string) (LogLevel, error) {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", name)
}

// gologName is the golog level name for l. Unknown levels log at info.
func (l LogLevel) gologName() string {
	if name, ok := gologNames[l]; ok {
		return name
	}
	return "info"
}

// Package-level logger (default is DefaultLogger with info level)
var defaultLogger Logger = NewDefaultLogger(LogLevelInfo)

// SetDefaultLogger sets the package-level logger
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current package-level logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// OrDefault returns logger, or the package-level logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return defaultLogger
	}
	return logger
}

// Debug logs a debug message using the package-level logger
func Debug(format string, v ...any) {
	defaultLogger.Debug(format, v...)
}

// Info logs an informational message using the package-level logger
func Info(format string, v ...any) {
	defaultLogger.Info(format, v...)
}

// Warn logs a warning message using the package-level logger
func Warn(format string, v ...any) {
	defaultLogger.Warn(format, v...)
}

// Error logs an error message using the package-level logger
func Error(format string, v ...any) {
	defaultLogger.Error(format, v...)
}
