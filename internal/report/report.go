// Package report writes a stats.Summary to disk.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/xuri/excelize/v2"

	"analytics/internal/stats"
	"analytics/internal/table"
)

// SummarySheet is the sheet name used by WriteXLSX.
const SummarySheet = "summary"

// WriteCSV writes s as CSV: a header row of an empty cell followed by the
// column names, then one row per statistic led by its label. Numbers use
// table.FormatFloat, so NaN becomes an empty cell.
func WriteCSV(w io.Writer, s stats.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, s.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(s.Columns)+1)
	for i, label := range s.Stats {
		rec[0] = label
		for j, v := range s.Cells[i] {
			rec[j+1] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write %s row: %w", label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates or truncates path and writes s to it.
func WriteCSVFile(path string, s stats.Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := WriteCSV(f, s); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteXLSX saves s as a workbook with a single SummarySheet laid out like
// the CSV. Numbers are stored as numeric cells; NaN and absent cells are
// left blank.
func WriteXLSX(path string, s stats.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(s.Columns)+1)
	header = append(header, "")
	for _, c := range s.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, label := range s.Stats {
		row := make([]any, 0, len(s.Columns)+1)
		row = append(row, label)
		for _, v := range s.Cells[i] {
			row = append(row, cellValue(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row: %w", label, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func cellValue(v table.Value) any {
	if f, ok := v.Float(); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}
