package proto

import "fmt"

// ArgumentError reports a caller-supplied value outside a documented
// range or enumeration. It is always raised before any bytes are sent.
type ArgumentError struct {
	Field    string
	Value    int
	Raw      string // set instead of Value for non-numeric arguments
	Min, Max int
	Ranged   bool // Min/Max are meaningful
}

// Error implements error.
func (e *ArgumentError) Error() string {
	if e.Ranged {
		return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
	}
	if e.Raw != "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Raw)
	}
	return fmt.Sprintf("invalid %s %d", e.Field, e.Value)
}

// MalformedError reports a reply that does not match the fixed format
// expected for the outstanding command.
type MalformedError struct {
	Reason string
}

// Error implements error.
func (e *MalformedError) Error() string {
	return "malformed reply: " + e.Reason
}

// FaultError wraps a fault code explicitly reported by the firmware.
type FaultError struct {
	Code byte
}

// Error implements error.
func (e *FaultError) Error() string {
	return fmt.Sprintf("firmware fault %d", e.Code)
}
