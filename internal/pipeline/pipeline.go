// Package pipeline implements the analytics run: load the input, drop
// incomplete rows, add the normalized column, write the summary, plot the
// histogram and optionally export the final table. Stages run one after the
// other on a single goroutine; the first error ends the run.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"analytics/internal/config"
	"analytics/internal/flow"
	"analytics/internal/metrics"
	"analytics/internal/parser"
	"analytics/internal/table"
)

// Step names, as they appear in logs, spans and metrics.
const (
	StepLoad      = "load"
	StepValidate  = "validate"
	StepTransform = "transform"
	StepReport    = "report"
	StepPlot      = "plot"
	StepExport    = "export"
)

var (
	// ErrFileNotFound reports a missing input file. The wrapped chain also
	// matches os.ErrNotExist.
	ErrFileNotFound = errors.New("input file not found")

	// ErrParse reports input that cannot be read as a table.
	ErrParse = parser.ErrMalformed
)

type stage struct {
	name string
	fn   func(ctx context.Context) error
}

// Run executes every stage of cfg through r and returns the final table.
// Nothing is written before the input has been read successfully.
func Run(ctx context.Context, cfg config.Pipeline, r *flow.Runner) (*table.Table, error) {
	logger := r.Logger()
	rec := r.Recorder()

	var t *table.Table
	steps := []stage{
		{StepLoad, func(ctx context.Context) (err error) {
			t, err = Load(ctx, logger, cfg.Input, cfg.Loader)
			if err == nil {
				rec.RecordRows(metrics.RowsLoaded, t.Len())
			}
			return err
		}},
		{StepValidate, func(context.Context) error {
			before := t.Len()
			out, err := Validate(logger, t, cfg.Validate)
			if err != nil {
				return err
			}
			rec.RecordRows(metrics.RowsDropped, before-out.Len())
			t = out
			return nil
		}},
		{StepTransform, func(context.Context) (err error) {
			t, err = Transform(logger, t, cfg.Transform)
			return err
		}},
		{StepReport, func(context.Context) error {
			return Report(logger, t, cfg.Report)
		}},
		{StepPlot, func(context.Context) error {
			return Plot(logger, t, cfg.Transform.Column, cfg.Plot)
		}},
	}
	if cfg.Storage.Kind != "" {
		steps = append(steps, stage{StepExport, func(ctx context.Context) error {
			n, err := Export(ctx, logger, t, cfg.Storage)
			rec.RecordRows(metrics.RowsExported, int(n))
			return err
		}})
	}

	for _, s := range steps {
		if err := r.Step(ctx, s.name, s.fn); err != nil {
			return nil, err
		}
	}
	rec.RecordRows(metrics.RowsOutput, t.Len())
	logger.Info("pipeline finished",
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns)),
	)
	return t, nil
}
