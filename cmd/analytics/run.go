package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"analytics/internal/config"
	"analytics/internal/flow"
	"analytics/internal/logging"
	"analytics/internal/metrics"
	"analytics/internal/metrics/datadog"
	"analytics/internal/metrics/prompush"
	"analytics/internal/pipeline"
	"analytics/internal/telemetry"
)

// errInvalidConfig is returned when validation reports at least one error.
var errInvalidConfig = errors.New("configuration is invalid")

// run loads and validates the configuration, wires logging, metrics and
// tracing, and executes the pipeline.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)

	issues := config.ValidatePipeline(*cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errInvalidConfig
	}
	if opts.validateOnly {
		fmt.Fprintln(stdout, "configuration is valid")
		return nil
	}

	logger, closeLog := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		SeqURL: cfg.Log.SeqURL,
	}, stderr)
	defer closeLog()
	logger = logger.With(slog.String("job", cfg.Job))

	rec := metrics.New(cfg.Job, newMetricsBackend(cfg.Metrics, cfg.Job, logger))
	defer func() {
		if err := rec.Flush(); err != nil {
			logger.Warn("metrics flush failed", slog.Any("error", err))
		}
	}()

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint, stderr)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	runner := flow.New(logger, rec)
	start := time.Now()
	runner.Logger().Info("pipeline started",
		slog.String("input", cfg.Input),
		slog.String("summary", cfg.Report.Path),
		slog.String("histogram", cfg.Plot.Path),
	)

	if _, err := pipeline.Run(ctx, *cfg, runner); err != nil {
		runner.Logger().Error("pipeline failed", slog.Any("error", err))
		return err
	}
	runner.Logger().Info("pipeline completed", slog.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
	return nil
}

// applyFlags overrides configuration values with non-empty flags.
func applyFlags(cfg *config.Pipeline, opts options) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Input, opts.input)
	set(&cfg.Report.Path, opts.summary)
	set(&cfg.Plot.Path, opts.histogram)
	set(&cfg.Log.Level, opts.logLevel)
	set(&cfg.Log.Format, opts.logFormat)
	set(&cfg.Metrics.Backend, opts.metricsBackend)
}

// newMetricsBackend builds the configured backend. A backend that fails to
// initialize is logged and skipped so metrics never fail a run.
func newMetricsBackend(cfg config.Metrics, job string, logger *slog.Logger) metrics.Backend {
	var out metrics.Multi

	if cfg.Backend == "prometheus" || cfg.Backend == "all" {
		b, err := prompush.NewBackend(job, cfg.PushgatewayURL)
		if err != nil {
			logger.Warn("metrics: prometheus backend disabled", slog.Any("error", err))
		} else {
			out = append(out, b)
		}
	}
	if cfg.Backend == "datadog" || cfg.Backend == "all" {
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  cfg.Namespace,
			GlobalTags: cfg.Tags,
		})
		if err != nil {
			logger.Warn("metrics: datadog backend disabled", slog.Any("error", err))
		} else {
			out = append(out, b)
		}
	}

	switch len(out) {
	case 0:
		logger.Debug("metrics: disabled", slog.String("backend", cfg.Backend))
		return metrics.Nop{}
	case 1:
		return out[0]
	default:
		return out
	}
}
