// Command analytics runs the sales analytics batch job: it loads a CSV (or
// XLSX) file, drops incomplete rows, adds a z-score column, writes summary
// statistics and plots a histogram.
//
//	analytics --config configs/pipeline.yaml
//	analytics --input analytics_data.csv --summary out.csv --histogram out.png
//	analytics --config configs/pipeline.yaml --validate
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "analytics/internal/storage/all"
)

// options holds the command-line flags. Empty values leave the
// configuration untouched.
type options struct {
	configPath     string
	input          string
	summary        string
	histogram      string
	logLevel       string
	logFormat      string
	metricsBackend string
	validateOnly   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize and plot a sales data file",
		Long: `analytics reads a delimited data file, removes rows with missing values,
adds a normalized sales column, writes describe()-style summary statistics
to CSV and renders a histogram of sales.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "pipeline config file (YAML, or JSON by extension)")
	f.StringVarP(&opts.input, "input", "i", "", "input data file (default analytics_data.csv)")
	f.StringVar(&opts.summary, "summary", "", "summary CSV output path (default analytics_summary.csv)")
	f.StringVar(&opts.histogram, "histogram", "", "histogram image output path (default sales_histogram.png)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	f.StringVar(&opts.metricsBackend, "metrics-backend", "", "metrics backend: none, prometheus, datadog, all")
	f.BoolVar(&opts.validateOnly, "validate", false, "validate the configuration and exit")

	return cmd
}
