// Package oplog provides a bounded, in-memory operation log. Every
// noteworthy engine event is appended as an immutable entry; once the
// capacity is reached the oldest entries fall off. Readers always get
// snapshot copies, newest first.
package oplog

import (
	"fmt"
	"sync"
	"time"
)

// Severity classifies a log entry.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the lowercase label used in rendered output.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity maps a label back to its Severity.
func ParseSeverity(label string) (Severity, error) {
	switch label {
	case "info":
		return SeverityInfo, nil
	case "success":
		return SeveritySuccess, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", label)
	}
}

// Entry is one recorded operation.
type Entry struct {
	ID       int64     `json:"id"`
	Time     time.Time `json:"time"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// DefaultCapacity bounds the log when no explicit capacity is given.
const DefaultCapacity = 200

// Log is a bounded append-only event log safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	nextID  int64
	cap     int
	entries []Entry // newest first
}

// New creates a Log with DefaultCapacity.
func New() *Log {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a Log keeping at most capacity entries.
func NewWithCapacity(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{cap: capacity}
}

// Append records a new entry, evicting the oldest one when full.
func (l *Log) Append(sev Severity, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	e := Entry{
		ID:       l.nextID,
		Time:     time.Now(),
		Severity: sev,
		Message:  msg,
	}

	if len(l.entries) < l.cap {
		l.entries = append(l.entries, Entry{})
	}
	copy(l.entries[1:], l.entries)
	l.entries[0] = e
}

// Appendf records a formatted entry.
func (l *Log) Appendf(sev Severity, format string, args ...any) {
	l.Append(sev, fmt.Sprintf(format, args...))
}

// Snapshot returns a copy of the current entries, newest first.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries are currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
