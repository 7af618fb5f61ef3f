package link

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen indicates the session is not in the Open state.
	ErrNotOpen = errors.New("session not open")
	// ErrDegraded indicates a previous transport failure left the link
	// in an unknown state; Close then Open to recover.
	ErrDegraded = errors.New("session degraded, reopen required")
)

// ConnectError indicates the serial link could not be established.
type ConnectError struct {
	Device string
	Cause  error
}

// Error implements error.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Device, e.Cause)
}

// Unwrap exposes the cause.
func (e *ConnectError) Unwrap() error { return e.Cause }

// TimeoutError indicates an exchange did not receive the full reply
// within its bound.
type TimeoutError struct {
	Want, Got int
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("reply timeout: got %d of %d bytes", e.Got, e.Want)
}
