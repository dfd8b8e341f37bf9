package logger

// Logger defines the interface for logging operations across redolog.
// All packages use this interface, allowing for flexible logger implementations.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...interface{})

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...interface{})

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...interface{})

	// Error logs an error-level message with the error and optional structured fields.
	Error(msg string, err error, fields ...interface{})
}

// Closeable is an optional interface for loggers that need cleanup.
type Closeable interface {
	// Close gracefully closes the logger, flushing any pending messages.
	Close() error
}

// NoOpLogger is a no-operation logger that discards all messages.
// Used as the default logger for tests and when logging is disabled.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...interface{})        {}
func (NoOpLogger) Info(string, ...interface{})         {}
func (NoOpLogger) Warn(string, ...interface{})         {}
func (NoOpLogger) Error(string, error, ...interface{}) {}

var _ Logger = NoOpLogger{}
