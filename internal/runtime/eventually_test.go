package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedbed/espalier/internal/runtime"
	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/session"
)

// flakyStep fails the first n attempts, then succeeds.
func flakyStep(title string, failures int, attempts *int) domain.Step {
	return domain.NewEffectStep(title, func(_ context.Context, s session.Session) (session.Session, error) {
		*attempts++
		if *attempts <= failures {
			return s, errors.New("not ready yet")
		}
		return s, nil
	})
}

func TestEventuallyStep_SucceedsAfterRetries(t *testing.T) {
	engine := runtime.NewEngine()

	attempts := 0
	eventually := runtime.NewEventuallyStep(2*time.Second, 10*time.Millisecond,
		flakyStep("wait for readiness", 3, &attempts),
	)

	out, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	require.NoError(t, err)

	// Failed exactly the first 3 attempts, succeeded on the 4th.
	assert.Equal(t, 4, attempts)

	var succeeded bool
	for _, entry := range out.Logs {
		if entry.Kind == domain.LogSuccess && entry.Message == "eventually block succeeded after 3 retries" {
			succeeded = true
		}
	}
	assert.True(t, succeeded, "expected a success entry naming the retry count, got %v", out.Logs)
}

func TestEventuallyStep_DeduplicatesIdenticalFailureLogs(t *testing.T) {
	engine := runtime.NewEngine()

	attempts := 0
	eventually := runtime.NewEventuallyStep(2*time.Second, 5*time.Millisecond,
		flakyStep("wait for readiness", 4, &attempts),
	)

	out, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	require.NoError(t, err)

	// Four attempts failed with the same signature, but only the first
	// contributes its failure log to the report.
	failureEntries := 0
	for _, entry := range out.Logs {
		if entry.Kind == domain.LogFailure && entry.Message == "wait for readiness" {
			failureEntries++
		}
	}
	assert.Equal(t, 1, failureEntries)
}

func TestEventuallyStep_FailsWhenBudgetExhausted(t *testing.T) {
	engine := runtime.NewEngine()
	boom := errors.New("still broken")

	step := domain.NewEffectStep("never ready", func(_ context.Context, s session.Session) (session.Session, error) {
		return s, boom
	})
	eventually := runtime.NewEventuallyStep(60*time.Millisecond, 25*time.Millisecond, step)

	start := time.Now()
	_, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// The loop must stop once the remaining budget cannot fund another
	// interval, well before the hard ceiling.
	assert.Less(t, elapsed, 120*time.Millisecond)
}

func TestEventuallyStep_LateSuccessIsAFailure(t *testing.T) {
	engine := runtime.NewEngine()

	step := domain.NewEffectStep("slow success", func(ctx context.Context, s session.Session) (session.Session, error) {
		select {
		case <-time.After(150 * time.Millisecond):
		case <-ctx.Done():
		}
		return s, nil
	})
	eventually := runtime.NewEventuallyStep(100*time.Millisecond, 10*time.Millisecond, step)

	_, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	require.Error(t, err)

	var late *domain.LateSuccessError
	require.ErrorAs(t, err, &late)
	assert.Equal(t, 100*time.Millisecond, late.MaxTime)
}

func TestEventuallyStep_HardInactivityCeiling(t *testing.T) {
	engine := runtime.NewEngine()

	// A pathological step that ignores both the context and the retry
	// bookkeeping entirely.
	step := domain.NewEffectStep("stuck", func(_ context.Context, s session.Session) (session.Session, error) {
		time.Sleep(500 * time.Millisecond)
		return s, nil
	})
	eventually := runtime.NewEventuallyStep(50*time.Millisecond, 10*time.Millisecond, step)

	start := time.Now()
	_, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	elapsed := time.Since(start)

	require.Error(t, err)
	var inactivity *domain.InactivityTimeoutError
	require.ErrorAs(t, err, &inactivity)
	assert.Equal(t, 100*time.Millisecond, inactivity.Ceiling)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestEventuallyStep_RejectsIntervalNotBelowMaxTime(t *testing.T) {
	engine := runtime.NewEngine()

	eventually := runtime.NewEventuallyStep(50*time.Millisecond, 50*time.Millisecond,
		domain.NewEffectStep("noop", func(_ context.Context, s session.Session) (session.Session, error) {
			return s, nil
		}),
	)

	_, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly less")
}

func TestEventuallyStep_PropagatesCleanupAndSession(t *testing.T) {
	engine := runtime.NewEngine()

	teardown := domain.NewEffectStep("drop fixture", func(_ context.Context, s session.Session) (session.Session, error) {
		return s, nil
	})

	attempts := 0
	step := domain.NewEffectStep("register then fail once", func(_ context.Context, s session.Session) (session.Session, error) {
		attempts++
		s, err := s.Add("attempt", "seen")
		if err != nil {
			return s, err
		}
		if attempts == 1 {
			return s, errors.New("first attempt fails")
		}
		return s, nil
	})

	eventually := runtime.NewEventuallyStep(2*time.Second, 5*time.Millisecond,
		domain.NewCleanupStep(teardown), step,
	)

	out, err := engine.RunSteps(context.Background(), []domain.Step{eventually}, newState(t))
	require.NoError(t, err)

	// The session mutation from the failing attempt carried into the retry.
	history, err := out.Session.History("attempt")
	require.NoError(t, err)
	assert.Equal(t, []string{"seen", "seen"}, history)

	// The cleanup registered on each attempt is propagated.
	assert.NotEmpty(t, out.Cleanup)
}
