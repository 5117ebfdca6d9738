// Package logger provides the structured logging used across the Ceph
// config core. It wraps logrus the same way lxd-export's SafeLogger does,
// but exposes the Ctx-based call signature the rest of the tree expects.
package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Ctx is a set of structured fields attached to a log line.
type Ctx map[string]any

func (c Ctx) fields() logrus.Fields {
	f := make(logrus.Fields, len(c))
	for k, v := range c {
		f[k] = v
	}

	return f
}

var (
	mu  sync.Mutex
	log = logrus.New()
)

// Logger is a logrus entry bound to a fixed set of context fields.
type Logger struct {
	entry *logrus.Entry
}

// AddContext returns a Logger that always includes the given fields.
func AddContext(ctx Ctx) *Logger {
	mu.Lock()
	defer mu.Unlock()

	return &Logger{entry: log.WithFields(ctx.fields())}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, ctx ...Ctx) {
	l.log(logrus.DebugLevel, msg, ctx...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, ctx ...Ctx) {
	l.log(logrus.InfoLevel, msg, ctx...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, ctx ...Ctx) {
	l.log(logrus.WarnLevel, msg, ctx...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, ctx ...Ctx) {
	l.log(logrus.ErrorLevel, msg, ctx...)
}

func (l *Logger) log(level logrus.Level, msg string, ctx ...Ctx) {
	entry := l.entry
	for _, c := range ctx {
		entry = entry.WithFields(c.fields())
	}

	entry.Log(level, msg)
}

var base = &Logger{entry: logrus.NewEntry(log)}

// Debug logs a debug-level message against the package-level logger.
func Debug(msg string, ctx ...Ctx) { base.Debug(msg, ctx...) }

// Info logs an info-level message against the package-level logger.
func Info(msg string, ctx ...Ctx) { base.Info(msg, ctx...) }

// Warn logs a warning-level message against the package-level logger.
func Warn(msg string, ctx ...Ctx) { base.Warn(msg, ctx...) }

// Error logs an error-level message against the package-level logger.
func Error(msg string, ctx ...Ctx) { base.Error(msg, ctx...) }

// Errorf logs an error-level message built with fmt-style formatting.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// SetLevel controls the minimum level the package-level logger emits.
func SetLevel(level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()
	log.SetLevel(level)
}
