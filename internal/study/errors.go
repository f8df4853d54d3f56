package study

import "errors"

// ValidationError reports bad input shape or range. Local, never retried.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

var (
	// ErrEmptyPool means the quiz selector matched no flashcards; no session
	// is created.
	ErrEmptyPool = errors.New("no flashcards match the quiz selection")

	// ErrSessionCompleted rejects answers submitted to a finished session.
	ErrSessionCompleted = errors.New("quiz session is already completed")

	// ErrSessionActive rejects a summary request before the session finishes.
	ErrSessionActive = errors.New("quiz session is not completed yet")
)
