package ark

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/apex/log"
)

// LogLevel defines the level of logging
type LogLevel int

const (
	// LogLevelError only shows error messages
	LogLevelError LogLevel = iota
	// LogLevelWarn shows warning and error messages
	LogLevelWarn
	// LogLevelInfo shows info and error messages
	LogLevelInfo
	// LogLevelDebug shows all messages including debug
	LogLevelDebug
	// LogLevelTrace shows all messages including trace
	LogLevelTrace
)

const traceField = "trace"

// loggerStruct filters by LogLevel and hands entries to an apex/log logger
type loggerStruct struct {
	level LogLevel
	log   *log.Logger
}

// NewLogger creates a new logger with the specified log level writing to stderr
func NewLogger(level LogLevel) *loggerStruct {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a new logger writing formatted lines to w
func NewLoggerWithWriter(level LogLevel, w io.Writer) *loggerStruct {
	return &loggerStruct{
		level: level,
		log: &log.Logger{
			Handler: newLineHandler(w),
			Level:   log.DebugLevel,
		},
	}
}

func (l *loggerStruct) SetLevel(level LogLevel) {
	l.level = level
}

func (l *loggerStruct) Error(format string, v ...interface{}) {
	// Error messages are always shown
	l.log.Errorf(format, v...)
}

// Warn logs a warning message if the log level is Warn or higher
func (l *loggerStruct) Warn(format string, v ...interface{}) {
	if l.level >= LogLevelWarn {
		l.log.Warnf(format, v...)
	}
}

func (l *loggerStruct) Info(format string, v ...interface{}) {
	if l.level >= LogLevelInfo {
		l.log.Infof(format, v...)
	}
}

func (l *loggerStruct) Debug(format string, v ...interface{}) {
	if l.level >= LogLevelDebug {
		l.log.Debugf(format, v...)
	}
}

// Trace has no apex/log level of its own, it is sent as a debug entry tagged with a trace field
func (l *loggerStruct) Trace(format string, v ...interface{}) {
	if l.level >= LogLevelTrace {
		l.log.WithField(traceField, true).Debugf(format, v...)
	}
}

// lineHandler renders entries as "<timestamp> [LEVEL] message"
type lineHandler struct {
	mu sync.Mutex
	w  io.Writer
}

func newLineHandler(w io.Writer) *lineHandler {
	return &lineHandler{w: w}
}

func (h *lineHandler) HandleLog(e *log.Entry) error {
	level := strings.ToUpper(e.Level.String())
	if _, ok := e.Fields[traceField]; ok {
		level = "TRACE"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s [%s] %s\n", e.Timestamp.Format("2006/01/02 15:04:05"), level, e.Message)
	return err
}

// Logger is the interface for logging, it can be overridden by the client code
type Logger interface {
	SetLevel(level LogLevel)
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
	Trace(format string, v ...interface{})
}
