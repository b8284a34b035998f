package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// weightSumTolerance absorbs floating-point rounding in the sum-equals-one
// check. Exact equality would reject tables like ten edges of weight 0.1.
const weightSumTolerance = 1e-6

// EmptyTransitionsError reports a property present in the table with no
// outgoing transitions.
type EmptyTransitionsError struct {
	Property string
}

func (e *EmptyTransitionsError) Error() string {
	return fmt.Sprintf("empty transitions definition for property '%s'", e.Property)
}

// NoEntryPointTransitionsError reports an entry point with no outgoing
// transition entry: no walk could ever begin.
type NoEntryPointTransitionsError struct {
	Property string
}

func (e *NoEntryPointTransitionsError) Error() string {
	return fmt.Sprintf("no transitions definition found for starting property '%s'", e.Property)
}

// DuplicateTransitionsError reports repeated destinations within one
// source's transition list.
type DuplicateTransitionsError struct {
	Property   string
	Duplicates []string
}

func (e *DuplicateTransitionsError) Error() string {
	return fmt.Sprintf("duplicate transitions definition for property '%s': %s",
		e.Property, strings.Join(e.Duplicates, ", "))
}

// WeightSumError reports outgoing weights that do not sum to 1.0.
type WeightSumError struct {
	Property string
	Sum      float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("incorrect transitions weight definition for property '%s': weights sum to %g instead of 1.0",
		e.Property, e.Sum)
}

// Validate checks the model before any run executes. Each condition is
// checked independently and all violations are aggregated; a non-nil result
// means no walk may start.
func (m *Model) Validate() error {
	var errs []error

	if m.EntryPoint == nil {
		errs = append(errs, errors.New("model has no entry point"))
	} else if len(m.Transitions[m.EntryPoint]) == 0 {
		errs = append(errs, &NoEntryPointTransitionsError{Property: m.EntryPoint.Description})
	}

	// Deterministic violation ordering: walk sources sorted by description.
	sources := make([]*Property, 0, len(m.Transitions))
	for p := range m.Transitions {
		sources = append(sources, p)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Description < sources[j].Description
	})

	for _, source := range sources {
		transitions := m.Transitions[source]

		if len(transitions) == 0 {
			errs = append(errs, &EmptyTransitionsError{Property: source.Description})
			continue
		}

		seen := make(map[string]int)
		var duplicates []string
		sum := 0.0
		for _, t := range transitions {
			sum += t.Weight
			seen[t.To.Description]++
			if seen[t.To.Description] == 2 {
				duplicates = append(duplicates, t.To.Description)
			}
		}

		if len(duplicates) > 0 {
			errs = append(errs, &DuplicateTransitionsError{Property: source.Description, Duplicates: duplicates})
		}
		if math.Abs(sum-1.0) > weightSumTolerance {
			errs = append(errs, &WeightSumError{Property: source.Description, Sum: sum})
		}
	}

	return errors.Join(errs...)
}
