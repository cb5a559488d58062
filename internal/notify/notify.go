// Package notify delivers the short user-facing messages that report the
// outcome of an operation.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier receives exactly one message per completed operation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Writer prints notifications as single lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Notifier that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "ok: %s\n", msg)
}

func (n *Writer) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "error: %s\n", msg)
}

// Kind distinguishes recorded notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Entry is one recorded notification.
type Entry struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in order.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Kind: k, Message: msg})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Errors returns only the error messages.
func (r *Recorder) Errors() []string {
	return r.messages(KindError)
}

// Successes returns only the success messages.
func (r *Recorder) Successes() []string {
	return r.messages(KindSuccess)
}

func (r *Recorder) messages(k Kind) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Kind == k {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
