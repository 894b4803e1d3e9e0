package ark

import (
	"fmt"
	"strings"
	"sync"
)

// mockLogger is a simple mock implementation of the Logger interface for testing
type mockLogger struct {
	level    LogLevel
	messages []string
	mu       sync.Mutex
}

func newMockLogger() *mockLogger {
	return &mockLogger{
		level:    LogLevelTrace,
		messages: make([]string, 0),
	}
}

func (l *mockLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *mockLogger) record(tag, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(tag+" "+format, v...))
}

func (l *mockLogger) Error(format string, v ...interface{}) { l.record("[ERROR]", format, v...) }
func (l *mockLogger) Warn(format string, v ...interface{})  { l.record("[WARN]", format, v...) }
func (l *mockLogger) Info(format string, v ...interface{})  { l.record("[INFO]", format, v...) }
func (l *mockLogger) Debug(format string, v ...interface{}) { l.record("[DEBUG]", format, v...) }
func (l *mockLogger) Trace(format string, v ...interface{}) { l.record("[TRACE]", format, v...) }

func (l *mockLogger) getMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Return a copy to avoid race conditions
	result := make([]string, len(l.messages))
	copy(result, l.messages)
	return result
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
