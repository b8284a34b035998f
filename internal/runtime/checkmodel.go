package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/model"
	"github.com/seedbed/espalier/pkg/random"
)

// Run end reasons, also used as metric labels.
const (
	reasonEndReached     = "end action reached"
	reasonMaxTransitions = "max transitions reached"
	reasonFailed         = "failed"
)

// CheckModelStep validates a transition graph and performs seeded
// randomized walks over it, searching for invariant violations.
type CheckModelStep struct {
	model          *model.Model
	maxRuns        int
	maxTransitions int
	rc             *random.Context
	generators     []random.Generator
}

// NewCheckModelStep creates a model-exploration step. A nil rc falls back
// to a wall-clock seed.
func NewCheckModelStep(m *model.Model, maxRuns, maxTransitions int, rc *random.Context, gens ...random.Generator) *CheckModelStep {
	if rc == nil {
		rc = random.NewTimeSeeded()
	}
	return &CheckModelStep{
		model:          m,
		maxRuns:        maxRuns,
		maxTransitions: maxTransitions,
		rc:             rc,
		generators:     gens,
	}
}

// Title implements domain.Step.
func (s *CheckModelStep) Title() string {
	return fmt.Sprintf("check model '%s' with maxNumberOfRuns=%d and maxNumberOfTransitions=%d",
		s.model.Description, s.maxRuns, s.maxTransitions)
}

// Run validates the model then executes sequential runs until the budget
// is reached or a run fails. A successful run's session is intentionally
// discarded before the next run; logs and cleanup steps carry forward. The
// random stream is never reseeded between runs, so a single seed
// reproduces the whole exploration.
func (s *CheckModelStep) Run(ctx context.Context, r domain.Runner, rs domain.RunState) (domain.RunState, error) {
	if err := s.validateConfig(); err != nil {
		return rs, &domain.StepError{StepTitle: s.Title(), Cause: err}
	}
	if err := s.model.Validate(); err != nil {
		rs = rs.Log(domain.LogFailure, fmt.Sprintf("invalid model '%s'", s.model.Description))
		return rs, &domain.StepError{StepTitle: s.Title(), Cause: err}
	}

	rs = rs.Log(domain.LogInfo, fmt.Sprintf("%s and seed=%d", s.Title(), s.rc.Seed()))

	for run := 1; run <= s.maxRuns; run++ {
		start := time.Now()
		nested := rs.ForNested().Log(domain.LogInfo, fmt.Sprintf("run #%d started", run))

		end, reason, path, err := s.walk(ctx, r, nested)
		if err != nil {
			end = end.LogTimed(domain.LogFailure, fmt.Sprintf("run #%d ended (%s)", run, reasonFailed), time.Since(start))
			rs = rs.MergeNestedDiscardingSession(end)
			s.recordRun(r, reasonFailed)
			cause := &model.RunFailedError{RunNumber: run, Path: path, Cause: err}
			return rs, &domain.StepError{StepTitle: s.Title(), Cause: cause}
		}

		end = end.LogTimed(domain.LogSuccess, fmt.Sprintf("run #%d ended (%s)", run, reason), time.Since(start))
		rs = rs.MergeNestedDiscardingSession(end)
		s.recordRun(r, reason)
	}

	return rs.Log(domain.LogSuccess, fmt.Sprintf("check model block succeeded after %d runs", s.maxRuns)), nil
}

func (s *CheckModelStep) validateConfig() error {
	if s.maxRuns <= 0 {
		return fmt.Errorf("maxNumberOfRuns must be positive, got %d", s.maxRuns)
	}
	if s.maxTransitions <= 0 {
		return fmt.Errorf("maxNumberOfTransitions must be positive, got %d", s.maxTransitions)
	}
	if len(s.generators) > model.MaxGenerators {
		return fmt.Errorf("at most %d generators may be bound, got %d", model.MaxGenerators, len(s.generators))
	}
	return nil
}

// walk performs a single randomized run over the graph, returning the end
// state, the end reason, and the path of visited properties.
func (s *CheckModelStep) walk(ctx context.Context, r domain.Runner, state domain.RunState) (domain.RunState, string, []string, error) {
	current := s.model.EntryPoint
	path := []string{current.Description}
	transitions := 0

	for {
		var err error
		if current.PreCondition != nil {
			state, err = r.RunSteps(ctx, []domain.Step{current.PreCondition}, state)
			if err != nil {
				return state, reasonFailed, path, &model.NoEligiblePropertyError{Property: current.Description, Cause: err}
			}
		}

		if current.Invariant != nil {
			invariant, err := s.buildInvariant(current)
			if err != nil {
				return state, reasonFailed, path, err
			}
			state, err = r.RunSteps(ctx, []domain.Step{invariant}, state)
			if err != nil {
				return state, reasonFailed, path, err
			}
		}

		outgoing, ok := s.model.Transitions[current]
		if !ok {
			// Terminal node: the property has no outgoing entry.
			return state.Log(domain.LogInfo, fmt.Sprintf("reached end property '%s'", current.Description)),
				reasonEndReached, path, nil
		}

		next := pickTransition(outgoing, s.rc.Float64())
		transitions++
		if transitions > s.maxTransitions {
			// Exhausting the transition budget without a violation is the
			// expected non-failing outcome for a model with cycles.
			return state, reasonMaxTransitions, path, nil
		}

		current = next
		path = append(path, current.Description)
	}
}

// buildInvariant evaluates the property's invariant function, converting a
// fault inside it (or inside a generator it consumes eagerly) into a
// structured error.
func (s *CheckModelStep) buildInvariant(p *model.Property) (step domain.Step, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.StepError{StepTitle: p.Description, Cause: fmt.Errorf("internal fault: %v", r)}
		}
	}()
	return p.Invariant(s.generators...), nil
}

// pickTransition locates the destination whose cumulative weight interval
// contains the drawn sample, first-match over the ordered list. The last
// destination absorbs any floating-point remainder.
func pickTransition(transitions []model.Transition, draw float64) *model.Property {
	cumulative := 0.0
	for _, t := range transitions {
		cumulative += t.Weight
		if draw < cumulative {
			return t.To
		}
	}
	return transitions[len(transitions)-1].To
}

func (s *CheckModelStep) recordRun(r domain.Runner, reason string) {
	if e, ok := r.(*Engine); ok {
		e.metrics.ModelRunsTotal.WithLabelValues(reason).Inc()
	}
}
