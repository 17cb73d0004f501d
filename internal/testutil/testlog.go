// Package testlog records log calls so tests can assert on them.
package testlog

import (
	"sync"

	"parcel-dispatch/internal/logx"
)

// Entry is one recorded log call. Fields include those bound with With.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the first field named key.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder collects entries from every logger it hands out.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger writing into r.
func (r *Recorder) Logger() logx.Logger { return recording{r: r} }

// Entries returns a snapshot of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Find returns the first entry with the given message.
func (r *Recorder) Find(msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns how many entries carry the given message.
func (r *Recorder) Count(msg string) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Msg == msg {
			n++
		}
	}
	return n
}

func (r *Recorder) record(level, msg string, bound, fields []logx.Field) {
	all := make([]logx.Field, 0, len(bound)+len(fields))
	all = append(all, bound...)
	all = append(all, fields...)

	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: all})
	r.mu.Unlock()
}

type recording struct {
	r     *Recorder
	bound []logx.Field
}

func (l recording) Debug(msg string, f ...logx.Field) { l.r.record("debug", msg, l.bound, f) }
func (l recording) Info(msg string, f ...logx.Field)  { l.r.record("info", msg, l.bound, f) }
func (l recording) Warn(msg string, f ...logx.Field)  { l.r.record("warn", msg, l.bound, f) }
func (l recording) Error(msg string, f ...logx.Field) { l.r.record("error", msg, l.bound, f) }

func (l recording) With(f ...logx.Field) logx.Logger {
	bound := make([]logx.Field, 0, len(l.bound)+len(f))
	bound = append(bound, l.bound...)
	return recording{r: l.r, bound: append(bound, f...)}
}

func (l recording) Sync() error { return nil }

var _ logx.Logger = recording{}
