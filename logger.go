package tickhookx

import (
	"fmt"
	"log"
)

// Logger is the structured logging hook. Implementations can bridge
// to logrus, zap or anything else; the driver only ever calls these
// four methods.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// DefaultLogger writes through the standard log package.
type DefaultLogger struct{}

var _ Logger = (*DefaultLogger)(nil)

// NewDefaultLogger creates a DefaultLogger.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.log("DEBUG", msg, fields...) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.log("INFO", msg, fields...) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.log("WARN", msg, fields...) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.log("ERROR", msg, fields...) }

func (l *DefaultLogger) log(level, msg string, fields ...Field) {
	out := fmt.Sprintf("[%s] %s", level, msg)
	if len(fields) > 0 {
		out += " {"
		for i, f := range fields {
			if i > 0 {
				out += ", "
			}
			out += fmt.Sprintf("%s: %v", f.Key, f.Value)
		}
		out += "}"
	}
	log.Println(out)
}

// NoOpLogger discards everything. It is the default so that library
// users opt into log output rather than out of it.
type NoOpLogger struct{}

var _ Logger = (*NoOpLogger)(nil)

// NewNoOpLogger creates a NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
