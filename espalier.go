package espalier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seedbed/espalier/internal/logging"
	"github.com/seedbed/espalier/internal/metrics"
	"github.com/seedbed/espalier/internal/runtime"
	"github.com/seedbed/espalier/pkg/domain"
	"github.com/seedbed/espalier/pkg/ports"
	"github.com/seedbed/espalier/pkg/random"
	"github.com/seedbed/espalier/pkg/reporter"
	"github.com/seedbed/espalier/pkg/session"
)

// Version is the library version reported by the CLI.
const Version = "0.1.0"

// Scenario is an ordered list of steps verified against a running service.
type Scenario struct {
	Title string
	Steps []domain.Step
}

// Runner executes scenarios. A Runner owns one RandomContext and drives one
// scenario at a time; concurrent scenarios each need their own Runner so
// that every random stream has a single owner.
type Runner struct {
	logger   *slog.Logger
	rand     *random.Context
	store    ports.ReportStore
	printer  *reporter.Printer
	registry prometheus.Registerer

	engine  *runtime.Engine
	metrics *metrics.Collector
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSeed fixes the random seed, making runs reproducible. Without it the
// seed comes from the wall clock.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.rand = random.NewContext(seed)
	}
}

// WithReportStore persists every report after the scenario completes.
func WithReportStore(store ports.ReportStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithPrinter renders every report after the scenario completes.
func WithPrinter(p *reporter.Printer) Option {
	return func(r *Runner) {
		r.printer = p
	}
}

// WithMetricsRegistry registers the engine's Prometheus collectors on the
// given registerer.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(r *Runner) {
		r.registry = reg
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.NewNop(),
		rand:   random.NewTimeSeeded(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.registry != nil {
		r.metrics = metrics.New(r.registry)
	} else {
		r.metrics = metrics.Nop()
	}
	r.engine = runtime.NewEngine(
		runtime.WithLogger(r.logger),
		runtime.WithMetrics(r.metrics),
	)
	return r
}

// Random returns the Runner's random context, for binding generators.
func (r *Runner) Random() *random.Context {
	return r.rand
}

// Run executes the scenario's steps against an empty session, then drains
// the accumulated cleanup steps in reverse registration order whatever the
// outcome. The returned error is the scenario failure, if any; the report
// is always produced.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*domain.Report, error) {
	started := time.Now()
	r.logger.Info("scenario started", "scenario", sc.Title, "seed", r.rand.Seed())

	rs := domain.NewRunState(session.New())
	out, err := r.engine.RunSteps(ctx, sc.Steps, rs)

	out, cleanupErr := r.runCleanup(ctx, out)
	if err == nil {
		err = cleanupErr
	}

	duration := time.Since(started)
	r.metrics.ScenarioDuration.Observe(duration.Seconds())

	report := &domain.Report{
		Scenario:  sc.Title,
		Success:   err == nil,
		Logs:      out.Logs,
		Seed:      r.rand.Seed(),
		StartedAt: started,
		Duration:  duration,
	}
	if err != nil {
		report.Failure = err.Error()
		r.logger.Error("scenario failed", "scenario", sc.Title, "err", err)
	} else {
		r.logger.Info("scenario succeeded", "scenario", sc.Title, "duration", duration)
	}

	if r.store != nil {
		if saveErr := r.store.Save(ctx, report); saveErr != nil {
			r.logger.Error("failed to persist report", "scenario", sc.Title, "err", saveErr)
		}
	}
	if r.printer != nil {
		r.printer.Print(report)
	}

	return report, err
}

// runCleanup executes pending cleanup steps in reverse registration order.
// Every cleanup runs even when an earlier one fails; the first failure is
// reported.
func (r *Runner) runCleanup(ctx context.Context, rs domain.RunState) (domain.RunState, error) {
	if len(rs.Cleanup) == 0 {
		return rs, nil
	}

	rs = rs.Log(domain.LogInfo, fmt.Sprintf("running %d cleanup steps", len(rs.Cleanup)))
	pending := rs.Cleanup
	rs.Cleanup = nil

	var firstErr error
	for i := len(pending) - 1; i >= 0; i-- {
		next, err := r.engine.RunSteps(ctx, []domain.Step{pending[i]}, rs)
		rs = next
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return rs, firstErr
}
