package log

import (
	"github.com/kataras/golog"
)

// GologLogger writes through a kataras/golog logger. The wrapper filters by
// its own level and keeps the golog level in step, so messages below the
// level are never formatted.
type GologLogger struct {
	logger *golog.Logger
	level  LogLevel
}

var _ Logger = (*GologLogger)(nil)

// NewGologLogger wraps logger at info level.
func NewGologLogger(logger *golog.Logger) *GologLogger {
	l := &GologLogger{logger: logger}
	l.SetLevel(LogLevelInfo)
	return l
}

// NewGologLoggerNamed wraps a fresh golog logger at the level called name, as
// accepted by ParseLevel. An unknown name yields an info logger and the error.
func NewGologLoggerNamed(name string) (*GologLogger, error) {
	level, err := ParseLevel(name)
	l := NewGologLogger(golog.New())
	l.SetLevel(level)
	return l, err
}

func (l *GologLogger) Debug(format string, v ...any) { l.logf(LogLevelDebug, format, v...) }
func (l *GologLogger) Info(format string, v ...any)  { l.logf(LogLevelInfo, format, v...) }
func (l *GologLogger) Warn(format string, v ...any)  { l.logf(LogLevelWarn, format, v...) }
func (l *GologLogger) Error(format string, v ...any) { l.logf(LogLevelError, format, v...) }

func (l *GologLogger) logf(level LogLevel, format string, v ...any) {
	if level < l.level {
		return
	}
	switch level {
	case LogLevelDebug:
		l.logger.Debugf(format, v...)
	case LogLevelInfo:
		l.logger.Infof(format, v...)
	case LogLevelWarn:
		l.logger.Warnf(format, v...)
	case LogLevelError:
		l.logger.Errorf(format, v...)
	}
}

// SetLevel sets the level on the wrapper and the underlying golog logger.
func (l *GologLogger) SetLevel(level LogLevel) {
	l.level = level
	l.logger.SetLevel(level.gologName())
}

// GetLevel returns the current level.
func (l *GologLogger) GetLevel() LogLevel {
	return l.level
}
