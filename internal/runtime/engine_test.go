package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seedbed/espalier/internal/runtime"
	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/session"
)

// noopStep returns a leaf step that records its execution.
func noopStep(title string, executed *[]string) domain.Step {
	return domain.NewEffectStep(title, func(_ context.Context, s session.Session) (session.Session, error) {
		*executed = append(*executed, title)
		return s, nil
	})
}

// failingStep returns a leaf step that fails with the given cause.
func failingStep(title string, cause error) domain.Step {
	return domain.NewEffectStep(title, func(_ context.Context, s session.Session) (session.Session, error) {
		return s, cause
	})
}

func newState(t *testing.T) domain.RunState {
	t.Helper()
	return domain.NewRunState(session.New())
}

func TestEngine_RunSteps_ThreadsSession(t *testing.T) {
	engine := runtime.NewEngine()

	steps := []domain.Step{
		domain.NewEffectStep("set name", func(_ context.Context, s session.Session) (session.Session, error) {
			return s.Add("name", "john")
		}),
		domain.NewEffectStep("read name", func(_ context.Context, s session.Session) (session.Session, error) {
			name, err := s.Get("name")
			if err != nil {
				return s, err
			}
			return s.Add("greeting", "hello "+name)
		}),
	}

	out, err := engine.RunSteps(context.Background(), steps, newState(t))
	require.NoError(t, err)

	greeting, err := out.Session.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello john", greeting)
	assert.Len(t, out.Logs, 2)
	assert.Equal(t, domain.LogSuccess, out.Logs[0].Kind)
}

func TestEngine_RunSteps_ShortCircuits(t *testing.T) {
	engine := runtime.NewEngine()
	boom := errors.New("boom")

	var executed []string
	steps := []domain.Step{
		noopStep("one", &executed),
		failingStep("two", boom),
		noopStep("three", &executed),
	}

	out, err := engine.RunSteps(context.Background(), steps, newState(t))
	require.Error(t, err)

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "two", stepErr.StepTitle)
	assert.ErrorIs(t, err, boom)

	// Step three never ran.
	assert.Equal(t, []string{"one"}, executed)

	// The failure is visible in the logs.
	last := out.Logs[len(out.Logs)-1]
	assert.Equal(t, domain.LogFailure, last.Kind)
	assert.Equal(t, "two", last.Message)
}

func TestEngine_RunSteps_CapturesPanics(t *testing.T) {
	engine := runtime.NewEngine()

	steps := []domain.Step{
		domain.NewEffectStep("explosive", func(_ context.Context, s session.Session) (session.Session, error) {
			panic("kaboom")
		}),
	}

	_, err := engine.RunSteps(context.Background(), steps, newState(t))
	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "explosive", stepErr.StepTitle)
	assert.Contains(t, stepErr.Cause.Error(), "internal fault")
	assert.Contains(t, stepErr.Cause.Error(), "kaboom")
}

func TestEngine_RunSteps_HonoursContextCancellation(t *testing.T) {
	engine := runtime.NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed []string
	_, err := engine.RunSteps(ctx, []domain.Step{noopStep("one", &executed)}, newState(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, executed)
}

func TestAttachStep_DepthAndMerge(t *testing.T) {
	engine := runtime.NewEngine()

	var executed []string
	attach := runtime.NewAttachStep("nested block",
		noopStep("inner one", &executed),
		noopStep("inner two", &executed),
	)

	out, err := engine.RunSteps(context.Background(), []domain.Step{attach}, newState(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"inner one", "inner two"}, executed)

	// Nested entries sit one level deeper; the parent's depth is restored
	// for the closing entry.
	byMessage := map[string]int{}
	for _, entry := range out.Logs {
		byMessage[entry.Message] = entry.Depth
	}
	assert.Equal(t, 0, byMessage["nested block"])
	assert.Equal(t, 1, byMessage["inner one"])
	assert.Equal(t, 1, byMessage["inner two"])
	assert.Equal(t, 0, byMessage["nested block succeeded"])
	assert.Equal(t, 0, out.Depth)
}

func TestAttachStep_PropagatesCleanupOnFailure(t *testing.T) {
	engine := runtime.NewEngine()

	teardown := domain.NewEffectStep("delete fixture", func(_ context.Context, s session.Session) (session.Session, error) {
		return s, nil
	})

	attach := runtime.NewAttachStep("nested block",
		domain.NewCleanupStep(teardown),
		failingStep("breaks", errors.New("boom")),
	)

	out, err := engine.RunSteps(context.Background(), []domain.Step{attach}, newState(t))
	require.Error(t, err)

	// Cleanup steps discovered in the failed nested run must still surface.
	require.Len(t, out.Cleanup, 1)
	assert.Equal(t, "delete fixture", out.Cleanup[0].Title())
}

func TestRepeatStep(t *testing.T) {
	engine := runtime.NewEngine()

	t.Run("runs the block n times", func(t *testing.T) {
		count := 0
		repeat := runtime.NewRepeatStep(3, domain.NewEffectStep("bump", func(_ context.Context, s session.Session) (session.Session, error) {
			count++
			return s.Add("count", fmt.Sprint(count))
		}))

		out, err := engine.RunSteps(context.Background(), []domain.Step{repeat}, newState(t))
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		// Each occurrence sees the previous occurrence's session.
		history, err := out.Session.History("count")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, history)
	})

	t.Run("stops at the first failing occurrence", func(t *testing.T) {
		count := 0
		repeat := runtime.NewRepeatStep(5, domain.NewEffectStep("flaky", func(_ context.Context, s session.Session) (session.Session, error) {
			count++
			if count == 2 {
				return s, errors.New("boom")
			}
			return s, nil
		}))

		_, err := engine.RunSteps(context.Background(), []domain.Step{repeat}, newState(t))
		require.Error(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("rejects a non-positive occurrence", func(t *testing.T) {
		repeat := runtime.NewRepeatStep(0)
		_, err := engine.RunSteps(context.Background(), []domain.Step{repeat}, newState(t))
		require.Error(t, err)
	})
}
