package espalier

import (
	"time"

	"github.com/seedbed/espalier/internal/runtime"
	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/model"
	"github.com/seedbed/espalier/pkg/random"
)

// Step creates a leaf step: a titled effect on the session.
func Step(title string, effect domain.EffectFunc) domain.Step {
	return domain.NewEffectStep(title, effect)
}

// Cleanup registers a step to run at scenario teardown, whatever the
// outcome of the steps around it.
func Cleanup(step domain.Step) domain.Step {
	return domain.NewCleanupStep(step)
}

// Attach groups steps under a named nested scope.
func Attach(title string, steps ...domain.Step) domain.Step {
	return runtime.NewAttachStep(title, steps...)
}

// Repeat executes the nested steps a fixed number of times.
func Repeat(times int, steps ...domain.Step) domain.Step {
	return runtime.NewRepeatStep(times, steps...)
}

// Eventually retries the nested steps until they succeed or maxTime
// elapses, waiting interval before each attempt after the first. A hard
// ceiling of twice maxTime guards against attempts that block forever.
func Eventually(maxTime, interval time.Duration, steps ...domain.Step) domain.Step {
	return runtime.NewEventuallyStep(maxTime, interval, steps...)
}

// CheckModel validates the transition graph, then performs randomized
// walks over it: up to maxRuns runs of at most maxTransitions transitions
// each, drawing from rc. Generators are handed to every property's
// invariant in slot order.
func CheckModel(m *model.Model, maxRuns, maxTransitions int, rc *random.Context, gens ...random.Generator) domain.Step {
	return runtime.NewCheckModelStep(m, maxRuns, maxTransitions, rc, gens...)
}
