// Package transcript holds the ordered log of chat lines shown to the user.
package transcript

import (
	"strings"

	"github.com/google/uuid"
)

// Entry is one line of the transcript.
type Entry struct {
	ID     uuid.UUID
	Sender string
	Text   string
}

// String renders the entry as "sender: text".
func (e Entry) String() string {
	return e.Sender + ": " + e.Text
}

// EventKind tells a Listener what changed.
type EventKind int

const (
	Appended EventKind = iota
	Replaced
	Cleared
)

func (k EventKind) String() string {
	switch k {
	case Appended:
		return "appended"
	case Replaced:
		return "replaced"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

// Event describes a single mutation. Index is -1 for Cleared.
type Event struct {
	Kind  EventKind
	Index int
	Entry Entry
}

// Listener is notified after every mutation, typically to scroll the view to
// the newest entry.
type Listener func(Event)

// Buffer is an append-only sequence of entries whose text may be overwritten
// in place. It is not safe for concurrent use; a single goroutine owns it.
type Buffer struct {
	entries  []Entry
	listener Listener
}

// New returns an empty Buffer. listener may be nil.
func New(listener Listener) *Buffer {
	return &Buffer{listener: listener}
}

// Append adds an entry at the end and returns it.
func (b *Buffer) Append(sender, text string) Entry {
	e := Entry{ID: uuid.New(), Sender: sender, Text: text}
	b.entries = append(b.entries, e)
	b.notify(Event{Kind: Appended, Index: len(b.entries) - 1, Entry: e})
	return e
}

// ReplaceLast overwrites the text of the most recent entry from sender,
// keeping its position. Without such an entry it appends instead.
func (b *Buffer) ReplaceLast(sender, text string) Entry {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Sender == sender {
			return b.replaceAt(i, text)
		}
	}
	return b.Append(sender, text)
}

// Replace overwrites the text of the entry with the given id.
func (b *Buffer) Replace(id uuid.UUID, text string) (Entry, bool) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].ID == id {
			return b.replaceAt(i, text), true
		}
	}
	return Entry{}, false
}

func (b *Buffer) replaceAt(i int, text string) Entry {
	b.entries[i].Text = text
	e := b.entries[i]
	b.notify(Event{Kind: Replaced, Index: i, Entry: e})
	return e
}

// Clear drops every entry.
func (b *Buffer) Clear() {
	b.entries = nil
	b.notify(Event{Kind: Cleared, Index: -1})
}

// Entries returns a copy of the current entries.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Buffer) Len() int { return len(b.entries) }

// Last returns the newest entry.
func (b *Buffer) Last() (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// String renders every entry, each followed by a blank line.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, e := range b.entries {
		sb.WriteString(e.String())
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (b *Buffer) notify(ev Event) {
	if b.listener != nil {
		b.listener(ev)
	}
}
