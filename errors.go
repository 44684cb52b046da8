package pipeline

import (
	"fmt"
)

// Diagnostics describes how far a failed run got
type Diagnostics struct {
	RunID     string         // ID of the failed run
	Completed []ProcessEntry // Steps that finished before the failure
	State     State          // State as it was when the failure happened
}

// StepError is returned when a step's run fails.
// Later steps and the finalize function were not invoked.
type StepError struct {
	StepID      string
	Index       int
	Cause       error
	Diagnostics Diagnostics
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s' failed: %v", e.StepID, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// FinalizeError is returned when every step succeeded but the output could not be derived
type FinalizeError struct {
	Cause       error
	Diagnostics Diagnostics
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("finalize failed: %v", e.Cause)
}

func (e *FinalizeError) Unwrap() error {
	return e.Cause
}

// ValidationError is returned when a spec cannot be executed at all
type ValidationError struct {
	Pipeline string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Pipeline == "" {
		return "invalid pipeline: " + e.Reason
	}
	return fmt.Sprintf("invalid pipeline '%s': %s", e.Pipeline, e.Reason)
}

// panicError wraps a value recovered from a panicking step or finalize function
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}
