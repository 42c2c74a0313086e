// Package notify carries user-facing status messages out of the
// command layer. Commands report outcomes through a Notifier instead
// of printing directly, so tests can capture them and alternative
// front ends can route them elsewhere.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Success(format string, args ...any)
	Error(format string, args ...any)
	Info(format string, args ...any)
}

// Writer is a Notifier that prints one prefixed line per message.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer notifier targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) emit(prefix, format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func (w *Writer) Success(format string, args ...any) { w.emit("✔", format, args...) }
func (w *Writer) Error(format string, args ...any)   { w.emit("✖", format, args...) }
func (w *Writer) Info(format string, args ...any)    { w.emit("•", format, args...) }

// Message is one captured notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder is a Notifier that captures messages for assertions.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) record(level Level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Success(format string, args ...any) { r.record(LevelSuccess, format, args...) }
func (r *Recorder) Error(format string, args ...any)   { r.record(LevelError, format, args...) }
func (r *Recorder) Info(format string, args ...any)    { r.record(LevelInfo, format, args...) }

// Messages returns the captured messages in arrival order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Success(string, ...any) {}
func (Discard) Error(string, ...any)   {}
func (Discard) Info(string, ...any)    {}
