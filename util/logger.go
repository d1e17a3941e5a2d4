package util

import (
	"fmt"
	"log"
	"os"
)

// Verbosity levels for NewLogger, matching the tools' -v stepping.
const (
	LevelWarning = 0
	LevelInfo    = 1
	LevelDebug   = 2
)

// StdLogger adapts the standard library logger to the protocol.Logger
// interface, filtered by verbosity.
type StdLogger struct {
	level  int
	logger *log.Logger
}

// NewLogger returns a stderr logger that emits debug output at or above
// the given verbosity level.
func NewLogger(level int) *StdLogger {
	return &StdLogger{
		level:  level,
		logger: log.New(os.Stderr, "", 0),
	}
}

// Debug logs a debug message with optional key-value pairs.
func (l *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.level >= LevelDebug {
		l.emit("DEBUG", msg, keysAndValues)
	}
}

// Info logs an info message with optional key-value pairs.
func (l *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.level >= LevelInfo {
		l.emit("INFO", msg, keysAndValues)
	}
}

// Error logs an error message with optional key-value pairs.
func (l *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit("ERROR", msg, keysAndValues)
}

func (l *StdLogger) emit(level, msg string, keysAndValues []interface{}) {
	line := fmt.Sprintf("%8s - %s", level, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		line += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Println(line)
}
