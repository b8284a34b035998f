package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seedbed/espalier/pkg/domain"
)

// EventuallyStep retries its nested steps until they succeed or a time
// budget elapses. Two independent bounds apply: the configured maxTime
// governs retry accounting, and a hard ceiling of twice maxTime aborts a
// pathological attempt that ignores the bookkeeping entirely.
type EventuallyStep struct {
	steps    []domain.Step
	maxTime  time.Duration
	interval time.Duration
}

// NewEventuallyStep creates a bounded-retry block. interval is the delay
// before every attempt after the first and must be strictly less than
// maxTime.
func NewEventuallyStep(maxTime, interval time.Duration, steps ...domain.Step) *EventuallyStep {
	return &EventuallyStep{steps: steps, maxTime: maxTime, interval: interval}
}

// Title implements domain.Step.
func (s *EventuallyStep) Title() string {
	return fmt.Sprintf("eventually block with maxTime %s and interval %s", s.maxTime, s.interval)
}

// Run drives the retry loop under the hard inactivity ceiling. The loop
// runs in its own goroutine so that an attempt blocking indefinitely can
// be abandoned; only state from completed attempts is ever reported.
func (s *EventuallyStep) Run(ctx context.Context, r domain.Runner, rs domain.RunState) (domain.RunState, error) {
	if s.interval >= s.maxTime {
		cause := fmt.Errorf("interval %s must be strictly less than maxTime %s", s.interval, s.maxTime)
		return rs, &domain.StepError{StepTitle: s.Title(), Cause: cause}
	}

	rs = rs.Log(domain.LogInfo, s.Title())
	ceiling := 2 * s.maxTime

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// completed is the parent state merged with every finished attempt so
	// far. The retry loop updates it after each attempt; the select below
	// reads it on whichever exit path fires first.
	var mu sync.Mutex
	completed := rs

	done := make(chan error, 1)
	go func() {
		done <- s.retryLoop(loopCtx, r, rs, &mu, &completed)
	}()

	timer := time.NewTimer(ceiling)
	defer timer.Stop()

	select {
	case err := <-done:
		mu.Lock()
		out := completed
		mu.Unlock()
		if err != nil {
			return out.Log(domain.LogFailure, fmt.Sprintf("%s failed", s.Title())), err
		}
		return out, nil

	case <-timer.C:
		cancel()
		mu.Lock()
		out := completed
		mu.Unlock()
		cause := &domain.InactivityTimeoutError{Ceiling: ceiling}
		return out.Log(domain.LogFailure, cause.Error()), &domain.StepError{StepTitle: s.Title(), Cause: cause}

	case <-ctx.Done():
		mu.Lock()
		out := completed
		mu.Unlock()
		return out, &domain.StepError{StepTitle: s.Title(), Cause: ctx.Err()}
	}
}

// retryLoop attempts the nested steps until success or budget exhaustion.
// Attempt 0 runs immediately; later attempts are preceded by the interval
// delay, which is charged against the remaining budget.
func (s *EventuallyStep) retryLoop(ctx context.Context, r domain.Runner, rs domain.RunState, mu *sync.Mutex, completed *domain.RunState) error {
	current := rs.Session
	remaining := s.maxTime
	retries := 0
	started := time.Now()

	// A failure signature, once logged, is not re-logged on identical
	// retries; only the first occurrence contributes its nested logs.
	seen := make(map[string]struct{})

	for {
		if retries > 0 {
			select {
			case <-time.After(s.interval):
			case <-ctx.Done():
				return &domain.StepError{StepTitle: s.Title(), Cause: ctx.Err()}
			}
			remaining -= s.interval
		}

		attemptStart := time.Now()
		nested, err := r.RunSteps(ctx, s.steps, rs.ForNested().WithSession(current))
		remaining -= time.Since(attemptStart)
		current = nested.Session

		if err == nil {
			mu.Lock()
			*completed = completed.MergeNested(nested)
			if remaining <= 0 {
				mu.Unlock()
				return &domain.StepError{StepTitle: s.Title(), Cause: &domain.LateSuccessError{MaxTime: s.maxTime}}
			}
			*completed = completed.LogTimed(domain.LogSuccess,
				fmt.Sprintf("eventually block succeeded after %d retries", retries), time.Since(started))
			mu.Unlock()
			return nil
		}

		signature := err.Error()
		mu.Lock()
		if _, dup := seen[signature]; dup {
			// Session and cleanup still propagate; the noise does not.
			*completed = completed.WithSession(nested.Session).RegisterCleanup(nested.Cleanup...)
		} else {
			seen[signature] = struct{}{}
			*completed = completed.MergeNested(nested)
		}
		mu.Unlock()

		if remaining-s.interval <= 0 {
			return err
		}

		retries++
		if e, ok := r.(*Engine); ok {
			e.metrics.RetriesTotal.Inc()
		}
	}
}
