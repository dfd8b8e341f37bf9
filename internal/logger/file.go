package logger

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/go-utils/helpers"
	goulog "github.com/julianstephens/go-utils/logger"
)

// FileLogger wraps go-utils/logger with rotating file output.
type FileLogger struct {
	underlying *goulog.Logger
	filePath   string
}

// NewFileLogger creates a logger that writes to a rotating file using
// go-utils/logger's built-in rotating file handler.
//
// Parameters:
//   - logDir: directory where log files are stored (created if missing)
//   - logFileName: name of the log file (e.g., "redolog.log")
//   - maxFileSizeMB: maximum size per log file in MB before rotation
//   - maxBackups: maximum number of backup log files to retain
func NewFileLogger(logDir string, logFileName string, maxFileSizeMB int, maxBackups int) (Logger, error) {
	if err := helpers.Ensure(logDir, true); err != nil {
		return nil, wrapLoggerErr("create file logger", ErrLogCreate, err, logDir)
	}

	logPath := filepath.Join(logDir, logFileName)
	maxAge := 28 // days

	underlying := goulog.New()
	if err := underlying.SetFileOutputWithConfig(goulog.FileRotationConfig{
		Filename:   logPath,
		MaxSize:    maxFileSizeMB,
		MaxBackups: &maxBackups,
		MaxAge:     &maxAge,
		Compress:   true,
	}); err != nil {
		return nil, wrapLoggerErr("create file logger", ErrLogCreate, err, logDir)
	}

	return &FileLogger{
		underlying: underlying,
		filePath:   logPath,
	}, nil
}

func (fl *FileLogger) Debug(msg string, fields ...interface{}) {
	if len(fields) > 0 {
		fl.underlying.WithFields(fieldsToMap(fields)).Debug(msg)
	} else {
		fl.underlying.Debug(msg)
	}
}

func (fl *FileLogger) Info(msg string, fields ...interface{}) {
	if len(fields) > 0 {
		fl.underlying.WithFields(fieldsToMap(fields)).Info(msg)
	} else {
		fl.underlying.Info(msg)
	}
}

func (fl *FileLogger) Warn(msg string, fields ...interface{}) {
	if len(fields) > 0 {
		fl.underlying.WithFields(fieldsToMap(fields)).Warn(msg)
	} else {
		fl.underlying.Warn(msg)
	}
}

func (fl *FileLogger) Error(msg string, err error, fields ...interface{}) {
	allFields := append([]interface{}{"error", err}, fields...)
	fl.underlying.WithFields(fieldsToMap(allFields)).Error(msg)
}

// Close flushes any pending entries. go-utils/logger does not expose a Close,
// so this exists to satisfy Closeable for graceful shutdown paths.
func (fl *FileLogger) Close() error {
	return nil
}

// fieldsToMap converts variadic key/value pairs to a map.
func fieldsToMap(fields []interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		result[fmt.Sprintf("%v", fields[i])] = fields[i+1]
	}
	return result
}
