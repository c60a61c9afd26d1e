// Package builtin contains the table transformers used by the pipeline.
package builtin

import (
	"analytics/internal/table"
	"analytics/internal/transformer"
)

// MissingCount is the number of absent cells in one column.
type MissingCount struct {
	Column string
	Count  int
}

// CountMissing returns the absent-cell count of every column, in column
// order.
func CountMissing(t *table.Table) []MissingCount {
	out := make([]MissingCount, len(t.Columns))
	for i, c := range t.Columns {
		out[i].Column = c.Name
	}
	for _, r := range t.Rows {
		for i, v := range r {
			if v.IsAbsent() {
				out[i].Count++
			}
		}
	}
	return out
}

// DropMissing removes every row that has an absent cell in any column.
// Dropping all rows yields an empty table with the same columns.
type DropMissing struct{}

var _ transformer.Transformer = DropMissing{}

// Name implements transformer.Transformer.
func (DropMissing) Name() string { return "drop_missing" }

// Apply implements transformer.Transformer.
func (DropMissing) Apply(in *table.Table) (*table.Table, error) {
	return in.Filter(func(r table.Row) bool {
		for _, v := range r {
			if v.IsAbsent() {
				return false
			}
		}
		return true
	}), nil
}
