package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a problem worth surfacing that does not block
	// execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is the dotted config
// key (e.g. "plot.bins").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePipeline checks p without mutating it. Field rules come from the
// struct tags; cross-field rules are checked here. Callers decide whether
// warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []Issue{{Severity: SeverityError, Path: "", Message: err.Error()}}
		}
		for _, fe := range verrs {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fieldPath(fe),
				Message:  describe(fe),
			})
		}
	}

	issues = append(issues, validateLoader(p)...)
	issues = append(issues, validateOutputs(p)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	if p.Telemetry.Exporter == "otlp" && strings.TrimSpace(p.Telemetry.Endpoint) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "telemetry.endpoint",
			Message:  "otlp exporter requires an endpoint",
		})
	}
	return issues
}

// fieldPath turns "Pipeline.plot.bins" into "plot.bins".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a URL, got %q", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func validateLoader(p Pipeline) []Issue {
	var issues []Issue
	l := p.Loader

	if n := utf8.RuneCountInString(l.Delimiter); n > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "loader.delimiter",
			Message:  fmt.Sprintf("delimiter must be a single character, got %q", l.Delimiter),
		})
	}
	switch l.Delimiter {
	case "\"", "\r", "\n":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "loader.delimiter",
			Message:  fmt.Sprintf("delimiter %q is not allowed", l.Delimiter),
		})
	}

	format := l.Format
	if format == "" {
		format = FormatFor(p.Input, "")
	}
	if format == "xlsx" && l.Delimiter != "" && l.Delimiter != "," {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "loader.delimiter",
			Message:  "delimiter is ignored for xlsx input",
		})
	}
	if format == "csv" && l.Sheet != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "loader.sheet",
			Message:  "sheet is ignored for csv input",
		})
	}
	return issues
}

func validateOutputs(p Pipeline) []Issue {
	var issues []Issue
	outputs := map[string]string{}
	for _, o := range []struct{ path, key string }{
		{p.Report.Path, "report.path"},
		{p.Report.XLSXPath, "report.xlsx_path"},
		{p.Plot.Path, "plot.path"},
	} {
		if o.path == "" {
			continue
		}
		clean := filepath.Clean(o.path)
		if clean == filepath.Clean(p.Input) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     o.key,
				Message:  "output would overwrite the input file",
			})
		}
		if prev, ok := outputs[clean]; ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     o.key,
				Message:  fmt.Sprintf("same file as %s", prev),
			})
		}
		outputs[clean] = o.key
	}
	if p.Transform.Output != "" && p.Transform.Output == p.Transform.Column {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "transform.output",
			Message:  "output column must differ from the source column",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	if s.Kind == "" {
		return nil
	}
	var issues []Issue
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  fmt.Sprintf("%s export requires a dsn", s.Kind),
		})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.table",
			Message:  fmt.Sprintf("%s export requires a table", s.Kind),
		})
	}
	if !s.AutoCreateTable {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.auto_create_table",
			Message:  "table must already exist with matching columns",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	if (m.Backend == "prometheus" || m.Backend == "all") && m.PushgatewayURL == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.pushgateway_url",
			Message:  "prometheus backend requires a pushgateway_url",
		})
	}
	if (m.Backend == "datadog" || m.Backend == "all") && m.DatadogAddr == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.datadog_addr",
			Message:  "datadog backend requires a datadog_addr",
		})
	}
	return issues
}

// FormatFor resolves the input format: format when set, otherwise "xlsx"
// for .xlsx/.xlsm files and "csv" for everything else.
func FormatFor(input, format string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return "csv"
	}
}
