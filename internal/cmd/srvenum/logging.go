package main

//
// Logging functionality
//

import (
	"fmt"
	"io"
	"time"

	"github.com/apex/log"
)

// logHandler implements the log handler required by github.com/apex/log
type logHandler struct {
	// Writer is the underlying writer
	io.Writer

	// t0 is when we started logging
	t0 time.Time
}

var _ log.Handler = &logHandler{}

// newLogger creates a logger writing to w using the given verbosity.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := &log.Logger{
		Level:   log.InfoLevel,
		Handler: &logHandler{Writer: w, t0: time.Now()},
	}
	if verbose {
		logger.Level = log.DebugLevel
	}
	return logger
}

// HandleLog implements log.Handler
func (h *logHandler) HandleLog(e *log.Entry) (err error) {
	s := fmt.Sprintf("[%14.6f] <%s> %s", time.Since(h.t0).Seconds(), e.Level, e.Message)
	if len(e.Fields) > 0 {
		s += fmt.Sprintf(": %+v", e.Fields)
	}
	s += "\n"
	_, err = h.Writer.Write([]byte(s))
	return
}
