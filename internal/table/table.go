// Package table holds the in-memory representation of a loaded dataset that
// is handed from one pipeline stage to the next.
//
// A Table is an ordered list of typed columns and an ordered list of rows.
// Every row has exactly one cell per column. Cells are either absent, a
// number, or text; the column Kind says which of the two present forms the
// column carries.
package table

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the inferred type of a column.
type Kind int

const (
	// Number columns hold float64 values (or absent cells).
	Number Kind = iota
	// Text columns hold string values (or absent cells).
	Text
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrNoColumn is returned when a named column does not exist.
var ErrNoColumn = errors.New("no such column")

// ErrNotNumeric is returned when a numeric operation targets a Text column.
var ErrNotNumeric = errors.New("column is not numeric")

// Column describes one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Value is a single cell. The zero Value is absent.
type Value struct {
	present bool
	num     float64
	str     string
	isText  bool
}

// Absent returns an absent cell.
func Absent() Value { return Value{} }

// Num returns a numeric cell.
func Num(f float64) Value { return Value{present: true, num: f} }

// Str returns a text cell.
func Str(s string) Value { return Value{present: true, str: s, isText: true} }

// IsAbsent reports whether the cell carries no value.
func (v Value) IsAbsent() bool { return !v.present }

// Float returns the numeric value and whether the cell is a present number.
func (v Value) Float() (float64, bool) {
	if !v.present || v.isText {
		return 0, false
	}
	return v.num, true
}

// Text returns the text value and whether the cell is present text.
func (v Value) Text() (string, bool) {
	if !v.present || !v.isText {
		return "", false
	}
	return v.str, true
}

// String renders the cell for logs and text sinks. Absent cells render empty.
func (v Value) String() string {
	switch {
	case !v.present:
		return ""
	case v.isText:
		return v.str
	default:
		return FormatFloat(v.num)
	}
}

// Any returns the cell as a driver-friendly value: nil, float64 or string.
func (v Value) Any() any {
	switch {
	case !v.present:
		return nil
	case v.isText:
		return v.str
	default:
		return v.num
	}
}

// Equal compares two cells. NaN numbers compare equal to each other so that
// a pass-through table compares equal to its input.
func (v Value) Equal(o Value) bool {
	if v.present != o.present || v.isText != o.isText {
		return false
	}
	if !v.present {
		return true
	}
	if v.isText {
		return v.str == o.str
	}
	if math.IsNaN(v.num) && math.IsNaN(o.num) {
		return true
	}
	return v.num == o.num
}

// Row is one record; cells are aligned with Table.Columns.
type Row []Value

// Table is an ordered set of typed columns and rows.
type Table struct {
	Columns []Column
	Rows    []Row
}

// New returns an empty table with the given columns.
func New(columns ...Column) *Table {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(r Row) error {
	if len(r) != len(t.Columns) {
		return fmt.Errorf("table: row has %d cells, want %d", len(r), len(t.Columns))
	}
	t.Rows = append(t.Rows, r)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Numbers returns the present values of a Number column in row order.
// Absent cells are skipped.
func (t *Table) Numbers(name string) ([]float64, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	if t.Columns[idx].Kind != Number {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, name, t.Columns[idx].Kind)
	}
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f, ok := r[idx].Float(); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// WithColumn returns a new table with col appended. values must hold one
// cell per row. The receiver is not modified.
func (t *Table) WithColumn(col Column, values []Value) (*Table, error) {
	if t.Has(col.Name) {
		return nil, fmt.Errorf("table: column %q already exists", col.Name)
	}
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("table: %d values for %d rows", len(values), len(t.Rows))
	}
	out := New(append(append([]Column{}, t.Columns...), col)...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, 0, len(r)+1)
		nr = append(nr, r...)
		out.Rows[i] = append(nr, values[i])
	}
	return out, nil
}

// SetColumn returns a new table where col holds values. An existing column
// of the same name is replaced in place; otherwise col is appended.
func (t *Table) SetColumn(col Column, values []Value) (*Table, error) {
	idx := t.Index(col.Name)
	if idx < 0 {
		return t.WithColumn(col, values)
	}
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("table: %d values for %d rows", len(values), len(t.Rows))
	}
	out := New(t.Columns...)
	out.Columns[idx] = col
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := append(Row{}, r...)
		nr[idx] = values[i]
		out.Rows[i] = nr
	}
	return out, nil
}

// Filter returns a new table holding the rows for which keep returns true.
// Columns are never removed.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// Equal reports whether both tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i] {
			if !t.Rows[i][j].Equal(o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}
