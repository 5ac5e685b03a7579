// Package log provides the leveled logging interface used across the research
// pipeline.
//
// Stages and service clients log through the Logger interface rather than a
// concrete implementation, so callers can plug in whichever backend they use.
// Two implementations ship with the package:
//
//   - DefaultLogger writes through Go's standard log package
//   - GologLogger forwards to a github.com/kataras/golog logger
//
// # Log Levels
//
// Levels in order of increasing severity: LogLevelDebug, LogLevelInfo,
// LogLevelWarn, LogLevelError. LogLevelNone disables output.
//
// # Example
//
//	glogger := golog.New()
//	glogger.SetPrefix("[researcher] ")
//
//	logger := log.NewGologLogger(glogger)
//	logger.SetLevel(log.LogLevelDebug)
//	logger.Info("searching %q", topic)
//
// A package-level logger is used by components constructed without one; it
// can be replaced with SetDefaultLogger.
package log
