package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/seedbed/espalier/pkg/domain"
)

// AttachStep groups nested steps under a named scope. It adds no control
// flow of its own, only a depth level and the scope demarcation logs.
type AttachStep struct {
	title string
	steps []domain.Step
}

// NewAttachStep creates a named nested block.
func NewAttachStep(title string, steps ...domain.Step) *AttachStep {
	return &AttachStep{title: title, steps: steps}
}

// Title implements domain.Step.
func (s *AttachStep) Title() string {
	return s.title
}

// Run executes the nested steps one level deeper and merges the result.
func (s *AttachStep) Run(ctx context.Context, r domain.Runner, rs domain.RunState) (domain.RunState, error) {
	rs = rs.Log(domain.LogInfo, s.title)
	start := time.Now()

	nested, err := r.RunSteps(ctx, s.steps, rs.ForNested())
	rs = rs.MergeNested(nested)
	if err != nil {
		return rs, err
	}
	return rs.LogTimed(domain.LogSuccess, fmt.Sprintf("%s succeeded", s.title), time.Since(start)), nil
}

// RepeatStep executes its nested steps a fixed number of times, feeding
// each occurrence the session produced by the previous one.
type RepeatStep struct {
	times int
	steps []domain.Step
}

// NewRepeatStep creates a repetition block.
func NewRepeatStep(times int, steps ...domain.Step) *RepeatStep {
	return &RepeatStep{times: times, steps: steps}
}

// Title implements domain.Step.
func (s *RepeatStep) Title() string {
	return fmt.Sprintf("repeat block with occurrence '%d'", s.times)
}

// Run executes the nested list s.times times, stopping at the first
// failing occurrence.
func (s *RepeatStep) Run(ctx context.Context, r domain.Runner, rs domain.RunState) (domain.RunState, error) {
	if s.times <= 0 {
		return rs, &domain.StepError{StepTitle: s.Title(), Cause: fmt.Errorf("occurrence must be positive, got %d", s.times)}
	}

	rs = rs.Log(domain.LogInfo, s.Title())
	for occurrence := 1; occurrence <= s.times; occurrence++ {
		nested, err := r.RunSteps(ctx, s.steps, rs.ForNested())
		rs = rs.MergeNested(nested)
		if err != nil {
			return rs.Log(domain.LogFailure, fmt.Sprintf("occurrence %d failed", occurrence)), err
		}
	}
	return rs.Log(domain.LogSuccess, "repeat block succeeded"), nil
}
