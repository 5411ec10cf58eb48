package logger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger captures every emitted entry in memory so tests can assert
// on what a component logged, and on what it did not. The main use is
// proving the API key never reaches a log entry.
type TestLogger struct {
	mu      sync.Mutex
	entries []Entry
	zl      *zerolog.Logger
}

// Entry is one captured log call
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Err     error
}

// NewTestLogger creates a capturing logger
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{zl: &nop}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	l.entries = append(l.entries, Entry{Level: level, Message: msg, Fields: copied, Err: err})
}

// Entries returns a copy of everything captured so far
func (l *TestLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesByLevel returns the captured entries at one level
func (l *TestLogger) EntriesByLevel(level string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// HasMessage reports whether an entry with exactly this message was logged
func (l *TestLogger) HasMessage(msg string) bool {
	for _, e := range l.Entries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// HasError reports whether anything was logged at error level
func (l *TestLogger) HasError() bool {
	return len(l.EntriesByLevel("ERROR")) > 0
}

// Clear drops all captured entries
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// String renders every captured entry, messages, field values and
// wrapped errors included. A substring check against it covers the
// whole log surface at once.
func (l *TestLogger) String() string {
	var b strings.Builder
	for _, e := range l.Entries() {
		fmt.Fprintf(&b, "[%s] %s", e.Level, e.Message)
		for k, v := range e.Fields {
			fmt.Fprintf(&b, " %s=%v", k, v)
		}
		if e.Err != nil {
			fmt.Fprintf(&b, " error=%v", e.Err)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *TestLogger) Debug(msg string) { l.record("DEBUG", msg, nil, nil) }
func (l *TestLogger) Info(msg string)  { l.record("INFO", msg, nil, nil) }
func (l *TestLogger) Warn(msg string)  { l.record("WARN", msg, nil, nil) }
func (l *TestLogger) Error(msg string) { l.record("ERROR", msg, nil, nil) }
func (l *TestLogger) Fatal(msg string) { l.record("FATAL", msg, nil, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("DEBUG", msg, fields, nil)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("INFO", msg, fields, nil)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("WARN", msg, fields, nil)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("ERROR", msg, fields, nil)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.record("FATAL", msg, fields, nil)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &testContext{sink: l, fields: map[string]interface{}{key: value}}
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &testContext{sink: l, fields: fields}
}

func (l *TestLogger) WithError(err error) Logger {
	return &testContext{sink: l, err: err}
}

func (l *TestLogger) WithContext(ctx context.Context) Logger { return l }

func (l *TestLogger) GetZerolog() *zerolog.Logger { return l.zl }

// testContext is a TestLogger child carrying bound fields and an error.
// All entries land in the parent's capture buffer.
type testContext struct {
	sink   *TestLogger
	fields map[string]interface{}
	err    error
}

func (c *testContext) emit(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.sink.record(level, msg, merged, c.err)
}

func (c *testContext) Debug(msg string) { c.emit("DEBUG", msg, nil) }
func (c *testContext) Info(msg string)  { c.emit("INFO", msg, nil) }
func (c *testContext) Warn(msg string)  { c.emit("WARN", msg, nil) }
func (c *testContext) Error(msg string) { c.emit("ERROR", msg, nil) }
func (c *testContext) Fatal(msg string) { c.emit("FATAL", msg, nil) }

func (c *testContext) DebugWithFields(msg string, fields map[string]interface{}) {
	c.emit("DEBUG", msg, fields)
}

func (c *testContext) InfoWithFields(msg string, fields map[string]interface{}) {
	c.emit("INFO", msg, fields)
}

func (c *testContext) WarnWithFields(msg string, fields map[string]interface{}) {
	c.emit("WARN", msg, fields)
}

func (c *testContext) ErrorWithFields(msg string, fields map[string]interface{}) {
	c.emit("ERROR", msg, fields)
}

func (c *testContext) FatalWithFields(msg string, fields map[string]interface{}) {
	c.emit("FATAL", msg, fields)
}

func (c *testContext) WithField(key string, value interface{}) Logger {
	merged := make(map[string]interface{}, len(c.fields)+1)
	for k, v := range c.fields {
		merged[k] = v
	}
	merged[key] = value
	return &testContext{sink: c.sink, fields: merged, err: c.err}
}

func (c *testContext) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &testContext{sink: c.sink, fields: merged, err: c.err}
}

func (c *testContext) WithError(err error) Logger {
	return &testContext{sink: c.sink, fields: c.fields, err: err}
}

func (c *testContext) WithContext(ctx context.Context) Logger { return c }

func (c *testContext) GetZerolog() *zerolog.Logger { return c.sink.zl }
