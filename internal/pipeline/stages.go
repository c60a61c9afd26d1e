package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode"
	"unicode/utf8"

	"analytics/internal/chart"
	"analytics/internal/config"
	"analytics/internal/datasource"
	"analytics/internal/datasource/file"
	"analytics/internal/parser"
	pcsv "analytics/internal/parser/csv"
	pxlsx "analytics/internal/parser/xlsx"
	"analytics/internal/report"
	"analytics/internal/stats"
	"analytics/internal/storage"
	"analytics/internal/table"
	"analytics/internal/transformer"
	"analytics/internal/transformer/builtin"
)

// Load reads path into a table using the CSV or XLSX parser chosen by
// cfg.Format or the file extension.
func Load(ctx context.Context, logger *slog.Logger, path string, cfg config.Loader) (*table.Table, error) {
	var src datasource.Source = file.NewLocal(path)
	rc, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, err
	}
	defer rc.Close()

	format := config.FormatFor(path, cfg.Format)
	var p parser.Parser
	switch format {
	case "xlsx":
		p = pxlsx.NewParser(pxlsx.Options{
			Sheet:            cfg.Sheet,
			NAValues:         cfg.NAValues,
			NormalizeHeaders: cfg.NormalizeHeaders,
			HeaderMap:        cfg.HeaderMap,
		})
	default:
		p = pcsv.NewParser(pcsv.Options{
			Comma:            cfg.Comma(),
			TrimSpace:        cfg.TrimSpace,
			NormalizeHeaders: cfg.NormalizeHeaders,
			HeaderMap:        cfg.HeaderMap,
			NAValues:         cfg.NAValues,
		})
	}

	t, err := p.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Name(), err)
	}
	logger.Info("data loaded",
		slog.String("path", src.Name()),
		slog.String("format", format),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns)),
	)
	return t, nil
}

// Validate logs the absent-value count of every column and returns the rows
// without absent cells, optionally with duplicates removed.
func Validate(logger *slog.Logger, t *table.Table, cfg config.Validate) (*table.Table, error) {
	missing := builtin.CountMissing(t)
	attrs := make([]any, 0, len(missing))
	for _, m := range missing {
		attrs = append(attrs, slog.Int(m.Column, m.Count))
	}
	logger.Info("missing values", slog.Group("columns", attrs...))

	chain := transformer.Chain{builtin.DropMissing{}}
	if cfg.DropDuplicates {
		chain = append(chain, builtin.DeDup{Keys: cfg.DedupKeys})
	}
	out, err := chain.Apply(t)
	if err != nil {
		return nil, err
	}
	logger.Info("rows validated",
		slog.Int("rows_in", t.Len()),
		slog.Int("rows_out", out.Len()),
	)
	return out, nil
}

// Transform appends the z-score of cfg.Column as cfg.Output. A table without
// cfg.Column is returned unchanged.
func Transform(logger *slog.Logger, t *table.Table, cfg config.Transform) (*table.Table, error) {
	if !t.Has(cfg.Column) {
		logger.Info("column not present, skipping normalization", slog.String("column", cfg.Column))
		return t, nil
	}
	out, err := transformer.Chain{builtin.ZScore{
		Column:  cfg.Column,
		Output:  cfg.Output,
		ZeroStd: cfg.ZeroStd,
	}}.Apply(t)
	if err != nil {
		return nil, err
	}
	logger.Info("column normalized", slog.String("column", cfg.Column), slog.String("output", cfg.Output))
	return out, nil
}

// Report writes the describe() summary of t to cfg.Path and, when set, to
// cfg.XLSXPath.
func Report(logger *slog.Logger, t *table.Table, cfg config.Report) error {
	s := stats.Describe(t)
	if err := report.WriteCSVFile(cfg.Path, s); err != nil {
		return err
	}
	if cfg.XLSXPath != "" {
		if err := report.WriteXLSX(cfg.XLSXPath, s); err != nil {
			return err
		}
	}
	logger.Info("report written",
		slog.String("path", cfg.Path),
		slog.Int("columns", len(s.Columns)),
	)
	return nil
}

// Plot renders a histogram of column to cfg.Path. A table without column
// produces no file; a text column is an error.
func Plot(logger *slog.Logger, t *table.Table, column string, cfg config.Plot) error {
	if !t.Has(column) {
		logger.Info("column not present, skipping histogram", slog.String("column", column))
		return nil
	}
	values, err := t.Numbers(column)
	if err != nil {
		return err
	}

	opt := chart.DefaultOptions()
	if cfg.Bins > 0 {
		opt.Bins = cfg.Bins
	}
	if column != "sales" {
		opt.XLabel = column
		opt.Title = histogramTitle(column)
	}
	if err := chart.Render(cfg.Path, values, opt); err != nil {
		return err
	}
	logger.Info("histogram written", slog.String("path", cfg.Path), slog.Int("bins", opt.Bins))
	return nil
}

// histogramTitle capitalizes the first rune of column: "été" -> "Été Distribution".
func histogramTitle(column string) string {
	r, n := utf8.DecodeRuneInString(column)
	if r == utf8.RuneError {
		return column + " Distribution"
	}
	return string(unicode.ToUpper(r)) + column[n:] + " Distribution"
}

// Export writes t to the configured table, creating it first when
// cfg.AutoCreateTable is set. It returns the number of rows written.
func Export(ctx context.Context, logger *slog.Logger, t *table.Table, cfg config.Storage) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Kind, DSN: cfg.DSN, Table: cfg.Table})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if cfg.AutoCreateTable {
		if err := storage.EnsureTable(ctx, cfg.Kind, repo, cfg.Table, t.Columns); err != nil {
			return 0, err
		}
	}

	n, err := storage.LoadBatches(ctx, logger, t.Names(), storage.Rows(t), cfg.BatchSize, repo.CopyFrom)
	if err != nil {
		return n, err
	}
	logger.Info("table exported",
		slog.String("kind", cfg.Kind),
		slog.String("table", cfg.Table),
		slog.Int64("rows", n),
	)
	return n, nil
}
