package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type simpleLogger struct {
	logger *log.Logger
	debug  bool
}

var (
	loggerInstance *simpleLogger
	once           sync.Once
)

// New creates a new singleton instance of the simple logger.
// Debug output is suppressed unless LOG_DEBUG is set.
func New() Logger {
	once.Do(func() {
		loggerInstance = &simpleLogger{
			logger: log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile),
			debug:  os.Getenv("LOG_DEBUG") != "",
		}
	})
	return loggerInstance
}

// Error logs an error message with the 🔴 emoji.
func (l *simpleLogger) Error(msg string, err error) {
	l.logger.Output(2, fmt.Sprintf("🔴 ERROR: %s - %v", msg, err))
}

// Warn logs a warning message with the ⚠️ emoji.
func (l *simpleLogger) Warn(msg string) {
	l.logger.Output(2, fmt.Sprintf("⚠️ WARN: %s", msg))
}

// Info logs an informational message.
func (l *simpleLogger) Info(msg string) {
	l.logger.Output(2, fmt.Sprintf("INFO: %s", msg))
}

// Debug logs a debug message when LOG_DEBUG is set.
func (l *simpleLogger) Debug(msg string) {
	if !l.debug {
		return
	}
	l.logger.Output(2, fmt.Sprintf("DEBUG: %s", msg))
}
