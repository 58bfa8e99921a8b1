package quiz

import "fmt"

// StateError is returned when an action is not legal in the session's
// current state, e.g. answering twice or moving past the last card.
type StateError struct {
	Op      string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Message)
}

// NotFoundError is returned for unknown decks and sessions.
type NotFoundError struct {
	What string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.ID)
}

// ConflictError is returned when a session was modified concurrently.
type ConflictError struct {
	SessionID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s was modified concurrently", e.SessionID)
}
