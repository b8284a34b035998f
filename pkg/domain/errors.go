package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrReportNotFound is returned when a scenario report cannot be found in a store.
var ErrReportNotFound = errors.New("report not found")

// StepError wraps a failure with the step that produced it. Internal faults
// (panics inside effects or generators) are captured and surfaced through
// this type rather than escaping the engine.
type StepError struct {
	StepTitle string
	Cause     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step '%s' failed: %v", e.StepTitle, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// LateSuccessError reports an eventually block whose nested steps succeeded
// only after the retry budget had already elapsed. A success arriving too
// late is not a valid pass.
type LateSuccessError struct {
	MaxTime time.Duration
}

func (e *LateSuccessError) Error() string {
	return fmt.Sprintf("eventually block succeeded after its max duration of %s", e.MaxTime)
}

// InactivityTimeoutError reports an eventually block whose hard ceiling of
// twice the retry budget fired, typically because a single attempt blocked
// without honouring the configured interval and duration.
type InactivityTimeoutError struct {
	Ceiling time.Duration
}

func (e *InactivityTimeoutError) Error() string {
	return fmt.Sprintf("eventually block exceeded its hard inactivity ceiling of %s", e.Ceiling)
}
