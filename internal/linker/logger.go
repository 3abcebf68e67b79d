package linker

import (
	"sync"

	"go.uber.org/zap"
)

var (
	zapLogger  = zap.NewNop()
	loggerLock sync.RWMutex
)

// Logger returns the linker package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return zapLogger
}

// SetLogger configures the linker package's logger. Bundles linked on other
// goroutines pick up the new logger on their next call to Logger. A nil
// logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerLock.Lock()
	zapLogger = l
	loggerLock.Unlock()
}
