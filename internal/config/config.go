// Package config defines the configuration model of an analytics run and
// loads it from defaults, an optional YAML/JSON file and ANALYTICS_*
// environment variables.
//
// Example (YAML):
//
//	input: analytics_data.csv
//	loader:
//	  delimiter: ","
//	  normalize_headers: false
//	transform:
//	  column: sales
//	  zero_std: passthrough
//	report:
//	  path: analytics_summary.csv
//	plot:
//	  path: sales_histogram.png
//	  bins: 20
//	storage:
//	  kind: sqlite
//	  dsn: file:analytics.db
//	  table: sales_normalized
package config

// Pipeline is the top-level configuration of one run.
type Pipeline struct {
	// Job names the run for logs and metrics.
	Job string `koanf:"job" validate:"required"`

	// Input is the path of the file to analyze.
	Input string `koanf:"input" validate:"required"`

	Loader    Loader    `koanf:"loader"`
	Validate  Validate  `koanf:"validate"`
	Transform Transform `koanf:"transform"`
	Report    Report    `koanf:"report"`
	Plot      Plot      `koanf:"plot"`
	Storage   Storage   `koanf:"storage"`
	Log       Log       `koanf:"log"`
	Metrics   Metrics   `koanf:"metrics"`
	Telemetry Telemetry `koanf:"telemetry"`
}

// Loader controls how the input file is read.
type Loader struct {
	// Format is "csv", "xlsx" or empty to pick by file extension.
	Format string `koanf:"format" validate:"omitempty,oneof=csv xlsx"`

	// Delimiter is the single-character CSV field separator.
	Delimiter string `koanf:"delimiter"`

	// Sheet selects the XLSX sheet; empty means the first one.
	Sheet string `koanf:"sheet"`

	TrimSpace        bool              `koanf:"trim_space"`
	NormalizeHeaders bool              `koanf:"normalize_headers"`
	HeaderMap        map[string]string `koanf:"header_map"`

	// NAValues replaces the default absent-value markers when set.
	NAValues []string `koanf:"na_values"`
}

// Validate controls row filtering.
type Validate struct {
	DropDuplicates bool     `koanf:"drop_duplicates"`
	DedupKeys      []string `koanf:"dedup_keys"`
}

// Transform configures the z-score step.
type Transform struct {
	Column  string `koanf:"column" validate:"required"`
	Output  string `koanf:"output" validate:"required"`
	ZeroStd string `koanf:"zero_std" validate:"oneof=passthrough error zero"`
}

// Report configures the summary outputs.
type Report struct {
	Path     string `koanf:"path" validate:"required"`
	XLSXPath string `koanf:"xlsx_path"`
}

// Plot configures the histogram.
type Plot struct {
	Path string `koanf:"path" validate:"required"`
	Bins int    `koanf:"bins" validate:"gte=1,lte=1000"`
}

// Storage configures the optional table export. An empty Kind disables it.
type Storage struct {
	Kind            string `koanf:"kind" validate:"omitempty,oneof=sqlite postgres mssql mysql"`
	DSN             string `koanf:"dsn"`
	Table           string `koanf:"table"`
	AutoCreateTable bool   `koanf:"auto_create_table"`
	BatchSize       int    `koanf:"batch_size" validate:"gte=1"`
}

// Log configures the process logger.
type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
	SeqURL string `koanf:"seq_url" validate:"omitempty,url"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is none, prometheus, datadog or all.
	Backend        string   `koanf:"backend" validate:"oneof=none prometheus datadog all"`
	PushgatewayURL string   `koanf:"pushgateway_url" validate:"omitempty,url"`
	DatadogAddr    string   `koanf:"datadog_addr"`
	Namespace      string   `koanf:"namespace"`
	Tags           []string `koanf:"tags"`
}

// Telemetry configures tracing.
type Telemetry struct {
	Exporter    string `koanf:"exporter" validate:"oneof=none stdout otlp"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// Comma returns the configured delimiter as a rune, or ',' when unset.
func (l Loader) Comma() rune {
	for _, r := range l.Delimiter {
		return r
	}
	return ','
}
