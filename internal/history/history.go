// Package history holds the append-only conversation log for one session.
// The log is passed by reference into the orchestrator rather than living in
// a process-wide singleton; only the orchestrator writes to it.
package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Roles recorded in the conversation log.
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleCorrective = "corrective"
)

// Entry is one recorded utterance.
type Entry struct {
	ID      string
	Role    string
	Content string
	Time    time.Time
}

// Log is an append-only conversation history. It is not safe for concurrent
// use; the execution model is single-threaded per session.
type Log struct {
	entries []Entry
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append records one utterance and returns its entry id.
func (l *Log) Append(role, content string) string {
	id := uuid.NewString()
	l.entries = append(l.entries, Entry{
		ID:      id,
		Role:    role,
		Content: content,
		Time:    time.Now(),
	})
	return id
}

// Entries returns a copy of the recorded entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Render formats the most recent entries as a prompt context block. A limit
// of zero or less renders the full log.
func (l *Log) Render(limit int) string {
	entries := l.entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Role)
		sb.WriteString(": ")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
