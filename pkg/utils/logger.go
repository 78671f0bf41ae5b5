package utils

import (
	"fmt"

	"github.com/iotaledger/hive.go/logger"
)

// WrappedLogger is a wrapper to call logging functions in case a logger was passed.
type WrappedLogger struct {
	logger *logger.Logger
}

// NewWrappedLogger creates a new WrappedLogger.
func NewWrappedLogger(logger *logger.Logger) *WrappedLogger {
	return &WrappedLogger{logger: logger}
}

// Logger return the underlying logger, nil if none was passed.
func (l *WrappedLogger) Logger() *logger.Logger {
	return l.logger
}

// LogDebugf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogDebugf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debugf(template, args...)
	}
}

// LogInfo uses fmt.Sprint to construct and log a message.
func (l *WrappedLogger) LogInfo(args ...interface{}) {
	if l.logger != nil {
		l.logger.Info(args...)
	}
}

// LogInfof uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogInfof(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Infof(template, args...)
	}
}

// LogWarn uses fmt.Sprint to construct and log a message.
func (l *WrappedLogger) LogWarn(args ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(args...)
	}
}

// LogWarnf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogWarnf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warnf(template, args...)
	}
}

// LogError uses fmt.Sprint to construct and log a message.
func (l *WrappedLogger) LogError(args ...interface{}) {
	if l.logger != nil {
		l.logger.Error(args...)
	}
}

// LogErrorf uses fmt.Sprintf to log a templated message.
func (l *WrappedLogger) LogErrorf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Errorf(template, args...)
	}
}

// LogFatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func (l *WrappedLogger) LogFatalf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Fatalf(template, args...)
	}
	panic(fmt.Sprintf(template, args...))
}

// LogPanicf uses fmt.Sprintf to log a templated message, then panics.
// Without a logger it panics with the formatted message.
func (l *WrappedLogger) LogPanicf(template string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Panicf(template, args...)
	}
	panic(fmt.Sprintf(template, args...))
}

// LogPanic uses fmt.Sprint to construct and log a message, then panics.
func (l *WrappedLogger) LogPanic(args ...interface{}) {
	if l.logger != nil {
		l.logger.Panic(args...)
	}
	panic(fmt.Sprint(args...))
}
