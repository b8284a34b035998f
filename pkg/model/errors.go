package model

import (
	"fmt"
	"strings"
)

// NoEligiblePropertyError reports a walk stalled on a property whose
// pre-condition failed: no eligible property could proceed.
type NoEligiblePropertyError struct {
	Property string
	Cause    error
}

func (e *NoEligiblePropertyError) Error() string {
	return fmt.Sprintf("no eligible property could proceed: pre-condition of '%s' failed: %v", e.Property, e.Cause)
}

func (e *NoEligiblePropertyError) Unwrap() error {
	return e.Cause
}

// RunFailedError reports the failing run of a model exploration, with the
// graph path that produced it.
type RunFailedError struct {
	RunNumber int
	Path      []string
	Cause     error
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("model exploration failed at run #%d (path: %s): %v",
		e.RunNumber, strings.Join(e.Path, " -> "), e.Cause)
}

func (e *RunFailedError) Unwrap() error {
	return e.Cause
}
