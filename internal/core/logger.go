package core

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
)

// Logger defines the output interface used by neodepends components.
//
// WithFields returns a derived Logger that prefixes every message with the
// given key/value pairs. The orchestrator's worker pool runs several
// commits concurrently, so a bare Warnf("resolve: %s failed for %s partition", ...) from one
// worker is indistinguishable from another's in interleaved output;
// WithFields lets a caller scope a logger to "commit=<id> lang=<l>" once and
// have every subsequent message carry that context.
type Logger interface {
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
	Critical(...interface{})
	Criticalf(string, ...interface{})
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair attached to a Logger via WithFields.
type Field struct {
	Key   string
	Value interface{}
}

// DefaultLogger is the default logger used by a pipeline, and wraps the standard
// log library.
type DefaultLogger struct {
	I      *log.Logger
	W      *log.Logger
	E      *log.Logger
	fields []Field
}

// NewLogger returns a configured default logger.
func NewLogger() *DefaultLogger {
	return &DefaultLogger{
		I: log.New(os.Stderr, "[INFO] ", log.LstdFlags),
		W: log.New(os.Stderr, "[WARN] ", log.LstdFlags),
		E: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

// WithFields returns a derived logger that shares this one's writers but
// prefixes every message with fields (appended to any fields already
// carried by this logger).
func (d *DefaultLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(d.fields)+len(fields))
	merged = append(merged, d.fields...)
	merged = append(merged, fields...)
	return &DefaultLogger{I: d.I, W: d.W, E: d.E, fields: merged}
}

func (d *DefaultLogger) withFieldPrefix(v []interface{}) []interface{} {
	if len(d.fields) == 0 {
		return v
	}
	return append([]interface{}{fieldPrefix(d.fields)}, v...)
}

func (d *DefaultLogger) withFieldFormat(f string) string {
	if len(d.fields) == 0 {
		return f
	}
	return fieldPrefix(d.fields) + " " + f
}

func fieldPrefix(fields []Field) string {
	var b strings.Builder
	for i, fl := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fl.Key)
		b.WriteByte('=')
		fmt.Fprint(&b, fl.Value)
	}
	return b.String()
}

// Info writes to "info" logger.
func (d *DefaultLogger) Info(v ...interface{}) { d.I.Println(d.withFieldPrefix(v)...) }

// Infof writes to "info" logger with printf-style formatting.
func (d *DefaultLogger) Infof(f string, v ...interface{}) { d.I.Printf(d.withFieldFormat(f), v...) }

// Warn writes to the "warning" logger.
func (d *DefaultLogger) Warn(v ...interface{}) { d.W.Println(d.withFieldPrefix(v)...) }

// Warnf writes to the "warning" logger with printf-style formatting.
func (d *DefaultLogger) Warnf(f string, v ...interface{}) { d.W.Printf(d.withFieldFormat(f), v...) }

// Error writes to the "error" logger.
func (d *DefaultLogger) Error(v ...interface{}) { d.E.Println(d.withFieldPrefix(v)...) }

// Errorf writes to the "error" logger with printf-style formatting.
func (d *DefaultLogger) Errorf(f string, v ...interface{}) { d.E.Printf(d.withFieldFormat(f), v...) }

// Critical writes to the "error" logger and logs the current stacktrace.
func (d *DefaultLogger) Critical(v ...interface{}) {
	d.E.Println(d.withFieldPrefix(v)...)
	d.logStacktraceToErr()
}

// Criticalf writes to the "error" logger with printf-style formatting and logs the
// current stacktrace.
func (d *DefaultLogger) Criticalf(f string, v ...interface{}) {
	d.E.Printf(d.withFieldFormat(f), v...)
	d.logStacktraceToErr()
}

// logStacktraceToErr prints a stacktrace to the logger's error output.
// It skips 4 levels that aren't meaningful to a logged stacktrace:
// * debug.Stack()
// * core.captureStacktrace()
// * DefaultLogger::logStacktraceToErr()
// * DefaultLogger::Critical() or DefaultLogger::Criticalf()
func (d *DefaultLogger) logStacktraceToErr() {
	d.E.Println("stacktrace:\n" + strings.Join(captureStacktrace(4), "\n"))
}

func captureStacktrace(skip int) []string {
	stack := string(debug.Stack())
	lines := strings.Split(stack, "\n")
	linesToSkip := 2*skip + 1
	if linesToSkip > len(lines) {
		return lines
	}
	return lines[linesToSkip:]
}

// NopLogger discards every message. Useful for tests that don't want to
// assert on log output but still need to satisfy the Logger interface.
type NopLogger struct{}

func (NopLogger) Info(...interface{})              {}
func (NopLogger) Infof(string, ...interface{})     {}
func (NopLogger) Warn(...interface{})              {}
func (NopLogger) Warnf(string, ...interface{})     {}
func (NopLogger) Error(...interface{})             {}
func (NopLogger) Errorf(string, ...interface{})    {}
func (NopLogger) Critical(...interface{})          {}
func (NopLogger) Criticalf(string, ...interface{}) {}
func (n NopLogger) WithFields(...Field) Logger     { return n }
