package goals

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no goal matches the requested id, or when an
// update matched no row (wrong chat, already completed, or deleted meanwhile).
var ErrNotFound = errors.New("goal not found")

// ValidationError reports a user-correctable problem with a command argument.
// Its message is safe to show in chat.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Code identifies the error class in handler summary logs.
func (e *ValidationError) Code() string { return "VALIDATION" }

// StoreError wraps a database failure. The wrapped cause is logged server-side
// and never shown to the chat.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("goal store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code identifies the error class in handler summary logs.
func (e *StoreError) Code() string { return "STORE" }
