package config

const (
	defaultBins      = 20
	defaultBatchSize = 1000
)

// defaults returns the default configuration values. They are loaded first
// and overridden by the config file and environment variables. Every leaf
// key that may be set from the environment needs an entry here or in
// envListKeys.
func defaults() map[string]any {
	return map[string]any{
		"job":   "analytics_pipeline",
		"input": "analytics_data.csv",

		"loader.format":            "",
		"loader.delimiter":         ",",
		"loader.sheet":             "",
		"loader.trim_space":        false,
		"loader.normalize_headers": false,

		"validate.drop_duplicates": false,

		"transform.column":   "sales",
		"transform.output":   "sales_normalized",
		"transform.zero_std": "passthrough",

		"report.path":      "analytics_summary.csv",
		"report.xlsx_path": "",

		"plot.path": "sales_histogram.png",
		"plot.bins": defaultBins,

		"storage.kind":              "",
		"storage.dsn":               "",
		"storage.table":             "",
		"storage.auto_create_table": false,
		"storage.batch_size":        defaultBatchSize,

		"log.level":   "info",
		"log.format":  "text",
		"log.seq_url": "",

		"metrics.backend":         "none",
		"metrics.pushgateway_url": "",
		"metrics.datadog_addr":    "",
		"metrics.namespace":       "",

		"telemetry.exporter":     "none",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "analytics",
	}
}
