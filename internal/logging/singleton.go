package logging

import (
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// InitLogger builds the process-wide logger. Call it once from main before
// anything asks for GetGlobalLogger.
func InitLogger(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
	return nil
}

// GetGlobalLogger returns the process-wide logger, or a no-op logger when
// InitLogger has not been called (tests, tooling).
func GetGlobalLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()

	if globalLogger == nil {
		return NewNop()
	}
	return globalLogger
}
