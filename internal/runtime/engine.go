// Package runtime implements the core step interpreter: ordered execution
// with failure short-circuiting, panic capture, bounded retry, and the
// model-exploration walk.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seedbed/espalier/internal/logging"
	"github.com/seedbed/espalier/internal/metrics"
	"github.com/seedbed/espalier/pkg/domain"
)

// Engine executes ordered step lists against a run state. It is the Runner
// handed to every step; wrapper steps call back into it for their nested
// lists.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Collector
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.metrics = c
		}
	}
}

// NewEngine creates an engine. Without options it logs nowhere and records
// metrics on a throwaway registry.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  logging.NewNop(),
		metrics: metrics.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics returns the engine's collector, for wrapper steps that record
// their own counters.
func (e *Engine) Metrics() *metrics.Collector {
	return e.metrics
}

// RunSteps implements domain.Runner: fold the state through the list,
// stopping at the first failure. Step N's completion strictly precedes
// step N+1's start; remaining steps never execute after a failure.
func (e *Engine) RunSteps(ctx context.Context, steps []domain.Step, rs domain.RunState) (domain.RunState, error) {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return rs, &domain.StepError{StepTitle: step.Title(), Cause: err}
		}

		next, err := e.runStep(ctx, step, rs)
		if err != nil {
			e.metrics.StepsTotal.WithLabelValues("failure").Inc()
			e.logger.Debug("step failed", "step", step.Title(), "depth", rs.Depth, "err", err)
			return next, err
		}
		e.metrics.StepsTotal.WithLabelValues("success").Inc()
		rs = next
	}
	return rs, nil
}

// runStep invokes a single step, converting any internal fault into a
// structured failure. Nothing a step does may escape as an unhandled panic.
func (e *Engine) runStep(ctx context.Context, step domain.Step, rs domain.RunState) (out domain.RunState, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = rs.Log(domain.LogFailure, step.Title())
			err = &domain.StepError{StepTitle: step.Title(), Cause: fmt.Errorf("internal fault: %v", r)}
		}
	}()

	out, err = step.Run(ctx, e, rs)
	if err != nil {
		var stepErr *domain.StepError
		if !errors.As(err, &stepErr) {
			err = &domain.StepError{StepTitle: step.Title(), Cause: err}
		}
	}
	return out, err
}
