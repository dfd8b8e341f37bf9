package logger

// MultiLogger forwards every log call to all underlying loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines multiple loggers into a single logger.
func NewMultiLogger(loggers ...Logger) Logger {
	return &MultiLogger{
		loggers: loggers,
	}
}

func (ml *MultiLogger) Debug(msg string, fields ...interface{}) {
	for _, lg := range ml.loggers {
		lg.Debug(msg, fields...)
	}
}

func (ml *MultiLogger) Info(msg string, fields ...interface{}) {
	for _, lg := range ml.loggers {
		lg.Info(msg, fields...)
	}
}

func (ml *MultiLogger) Warn(msg string, fields ...interface{}) {
	for _, lg := range ml.loggers {
		lg.Warn(msg, fields...)
	}
}

func (ml *MultiLogger) Error(msg string, err error, fields ...interface{}) {
	for _, lg := range ml.loggers {
		lg.Error(msg, err, fields...)
	}
}

func (ml *MultiLogger) Close() error {
	var lastErr error
	for _, lg := range ml.loggers {
		if c, ok := lg.(Closeable); ok {
			if err := c.Close(); err != nil {
				lastErr = err
			}
		}
	}
	if lastErr == nil {
		return nil
	}
	return wrapLoggerErr("close multi logger", ErrLogClose, lastErr, "")
}
