// Package logx contains logging extensions.
package logx

import (
	"fmt"
	"sync"
	"time"

	"github.com/ooni/netservice/internal/model"
)

// OperationLogger logs the beginning and the end of an operation.
type OperationLogger struct {
	// Logger is the underlying logger.
	Logger model.Logger

	message string
	once    sync.Once
	t0      time.Time
}

// NewOperationLogger logs `<message>...` and returns an [*OperationLogger]
// whose Stop method you should call when the operation is done.
func NewOperationLogger(logger model.Logger, format string, v ...any) *OperationLogger {
	ol := &OperationLogger{
		Logger:  model.ValidLoggerOrDefault(logger),
		message: fmt.Sprintf(format, v...),
		once:    sync.Once{},
		t0:      time.Now(),
	}
	ol.Logger.Infof("%s...", ol.message)
	return ol
}

// Stop logs `<message>... <result> in <elapsed>`, where result is either
// "ok" or the error string. Calling Stop more than once has no effect.
func (ol *OperationLogger) Stop(err error) {
	ol.once.Do(func() {
		elapsed := time.Since(ol.t0)
		if err != nil {
			ol.Logger.Warnf("%s... %s in %s", ol.message, err.Error(), elapsed)
			return
		}
		ol.Logger.Infof("%s... ok in %s", ol.message, elapsed)
	})
}
