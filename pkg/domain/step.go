package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/seedbed/espalier/pkg/session"
)

// Runner is the execution primitive handed to every step. Wrapper steps
// call back into it to run their nested step lists.
type Runner interface {
	// RunSteps executes the list in order against the given state,
	// short-circuiting on the first failure. The returned state is the
	// last one produced, whether or not an error is returned.
	RunSteps(ctx context.Context, steps []Step, rs RunState) (RunState, error)
}

// Step is the unit of scenario execution. A leaf step performs an atomic
// action; a wrapper step runs nested steps through the Runner and applies
// its own control-flow semantics on the result.
type Step interface {
	// Title is the human-readable step description used in logs and errors.
	Title() string

	// Run consumes a run state and produces the updated state plus a
	// failure, if any. Implementations must return structured errors, never
	// panic; the Runner converts stray panics into step failures anyway.
	Run(ctx context.Context, r Runner, rs RunState) (RunState, error)
}

// EffectFunc is the contract consumed from leaf-step authors: a function
// from session to an updated session or a structured error. Blocking
// external calls must honour ctx.
type EffectFunc func(ctx context.Context, s session.Session) (session.Session, error)

// EffectStep is the leaf step: a title and an effect on the session.
type EffectStep struct {
	title  string
	effect EffectFunc
}

// NewEffectStep creates a leaf step.
func NewEffectStep(title string, effect EffectFunc) EffectStep {
	return EffectStep{title: title, effect: effect}
}

// Title implements Step.
func (s EffectStep) Title() string {
	return s.title
}

// Run applies the effect and logs the outcome with its elapsed time.
func (s EffectStep) Run(ctx context.Context, _ Runner, rs RunState) (RunState, error) {
	start := time.Now()
	next, err := s.effect(ctx, rs.Session)
	elapsed := time.Since(start)
	if err != nil {
		rs = rs.LogTimed(LogFailure, s.title, elapsed)
		return rs, &StepError{StepTitle: s.title, Cause: err}
	}
	return rs.WithSession(next).LogTimed(LogSuccess, s.title, elapsed), nil
}

// CleanupStep registers a deferred step instead of acting immediately.
// The registered step runs at scenario teardown whatever the outcome.
type CleanupStep struct {
	step Step
}

// NewCleanupStep wraps a step for deferred execution.
func NewCleanupStep(step Step) CleanupStep {
	return CleanupStep{step: step}
}

// Title implements Step.
func (s CleanupStep) Title() string {
	return fmt.Sprintf("register cleanup '%s'", s.step.Title())
}

// Run records the wrapped step on the state's cleanup list.
func (s CleanupStep) Run(_ context.Context, _ Runner, rs RunState) (RunState, error) {
	return rs.RegisterCleanup(s.step).Log(LogDebug, s.Title()), nil
}
