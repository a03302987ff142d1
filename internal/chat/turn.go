package chat

import "github.com/google/uuid"

// TurnState is the lifecycle position of a single turn.
type TurnState int

const (
	Idle TurnState = iota
	Sent
	Succeeded
	Failed
)

func (s TurnState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sent:
		return "sent"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Turn is one submitted question and its eventual resolution. Its fields
// are only written by the goroutine that owns the Session.
type Turn struct {
	Question    string
	Placeholder uuid.UUID
	State       TurnState
	// Answer is the text that replaced the placeholder: the model's answer,
	// the no-answer fallback, or a failure description.
	Answer string
	Err    error
}

// Resolved reports whether the turn has left the Sent state.
func (t *Turn) Resolved() bool {
	return t.State == Succeeded || t.State == Failed
}
