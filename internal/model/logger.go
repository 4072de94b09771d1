package model

//
// Logger
//

import "fmt"

// DebugLogger emits debug messages only.
type DebugLogger interface {
	// Debug emits a debug message.
	Debug(msg string)

	// Debugf formats and emits a debug message.
	Debugf(format string, v ...interface{})
}

// InfoLogger emits debug and informational messages.
type InfoLogger interface {
	DebugLogger

	// Info emits an informational message.
	Info(msg string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...interface{})
}

// Logger is the logger used across this codebase. The `log.Log` value
// exported by `github.com/apex/log` implements this interface.
type Logger interface {
	InfoLogger

	// Warn emits a warning message.
	Warn(msg string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...interface{})
}

// DiscardLogger is a [Logger] that ignores all messages.
var DiscardLogger Logger = logDiscarder{}

type logDiscarder struct{}

func (logDiscarder) Debug(msg string)                       {}
func (logDiscarder) Debugf(format string, v ...interface{}) {}
func (logDiscarder) Info(msg string)                        {}
func (logDiscarder) Infof(format string, v ...interface{})  {}
func (logDiscarder) Warn(msg string)                        {}
func (logDiscarder) Warnf(format string, v ...interface{})  {}

// ErrorToStringOrOK returns "ok" for a nil error and the error string otherwise.
func ErrorToStringOrOK(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

// ValidLoggerOrDefault returns logger when it is not nil and [DiscardLogger] otherwise.
func ValidLoggerOrDefault(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return DiscardLogger
}

// NewPrefixLogger returns a [Logger] that prepends prefix and a space to
// every message before forwarding it to logger. We use this logger to tag the
// messages emitted by a given enumeration session.
func NewPrefixLogger(prefix string, logger Logger) Logger {
	return &prefixLogger{logger: ValidLoggerOrDefault(logger), prefix: prefix}
}

type prefixLogger struct {
	logger Logger
	prefix string
}

func (pl *prefixLogger) Debug(msg string) {
	pl.logger.Debug(pl.prefix + " " + msg)
}

func (pl *prefixLogger) Debugf(format string, v ...interface{}) {
	pl.logger.Debug(pl.prefix + " " + fmt.Sprintf(format, v...))
}

func (pl *prefixLogger) Info(msg string) {
	pl.logger.Info(pl.prefix + " " + msg)
}

func (pl *prefixLogger) Infof(format string, v ...interface{}) {
	pl.logger.Info(pl.prefix + " " + fmt.Sprintf(format, v...))
}

func (pl *prefixLogger) Warn(msg string) {
	pl.logger.Warn(pl.prefix + " " + msg)
}

func (pl *prefixLogger) Warnf(format string, v ...interface{}) {
	pl.logger.Warn(pl.prefix + " " + fmt.Sprintf(format, v...))
}
