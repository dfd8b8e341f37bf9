package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level orders console log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level. Unknown names default to info.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ConsoleLogger writes structured logs to stdout/stderr with timestamps.
type ConsoleLogger struct {
	minLevel Level
	out      io.Writer
	err      io.Writer
}

// NewConsoleLogger creates a logger that writes to console (stdout/stderr).
// level can be "debug", "info", "warn", or "error".
func NewConsoleLogger(level string) Logger {
	return &ConsoleLogger{
		minLevel: ParseLevel(level),
		out:      os.Stdout,
		err:      os.Stderr,
	}
}

func (cl *ConsoleLogger) Debug(msg string, fields ...interface{}) {
	cl.log(LevelDebug, msg, fields...)
}

func (cl *ConsoleLogger) Info(msg string, fields ...interface{}) {
	cl.log(LevelInfo, msg, fields...)
}

func (cl *ConsoleLogger) Warn(msg string, fields ...interface{}) {
	cl.log(LevelWarn, msg, fields...)
}

func (cl *ConsoleLogger) Error(msg string, err error, fields ...interface{}) {
	// Errors always log regardless of the configured level.
	allFields := append([]interface{}{"error", err}, fields...)
	cl.log(LevelError, msg, allFields...)
}

func (cl *ConsoleLogger) log(level Level, msg string, fields ...interface{}) {
	if level < cl.minLevel && level != LevelError {
		return
	}

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")

	fieldStr := ""
	for i := 0; i+1 < len(fields); i += 2 {
		fieldStr += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}

	logLine := fmt.Sprintf("[%s] %s: %s%s\n", timestamp, level, msg, fieldStr)

	if level == LevelError {
		fmt.Fprint(cl.err, logLine) // nolint:errcheck
	} else {
		fmt.Fprint(cl.out, logLine) // nolint:errcheck
	}
}
