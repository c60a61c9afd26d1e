// Package flow runs named pipeline steps in order. A Runner logs each step's
// start and finish, records step metrics and wraps the step in a trace span.
// There are no retries and no scheduling: a failed step ends the run.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"analytics/internal/metrics"
)

const tracerName = "analytics/internal/flow"

// Runner executes steps for a single run.
type Runner struct {
	runID    string
	logger   *slog.Logger
	recorder *metrics.Recorder
	tracer   trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// WithRunID fixes the run id instead of generating a random UUID.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// New returns a Runner whose logger carries a run_id attribute. A nil logger
// discards output and a nil recorder records nothing.
func New(logger *slog.Logger, rec *metrics.Recorder, opts ...Option) *Runner {
	r := &Runner{
		runID:    uuid.NewString(),
		recorder: rec,
		tracer:   otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(r)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if r.recorder == nil {
		r.recorder = metrics.New("", nil)
	}
	r.logger = logger.With(slog.String("run_id", r.runID))
	return r
}

// RunID returns the identifier attached to every log line of this run.
func (r *Runner) RunID() string { return r.runID }

// Logger returns the run-scoped logger.
func (r *Runner) Logger() *slog.Logger { return r.logger }

// Recorder returns the metrics recorder used for steps.
func (r *Runner) Recorder() *metrics.Recorder { return r.recorder }

// Step runs fn as the step called name. The returned error wraps fn's error
// with the step name; context cancellation before the step starts is
// reported without calling fn.
func (r *Runner) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	ctx, span := r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("run.id", r.runID),
		attribute.String("step", name),
	))
	defer span.End()

	log := r.logger.With(slog.String("step", name))
	log.InfoContext(ctx, "step started")
	start := time.Now()

	err := fn(ctx)
	d := time.Since(start)
	r.recorder.RecordStep(name, err, d)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "step failed", slog.Duration("duration", d), slog.Any("error", err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.InfoContext(ctx, "step finished", slog.Duration("duration", d))
	return nil
}
