package table

import (
	"strconv"
	"strings"
)

// DefaultNAValues are the field contents treated as absent on load.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// NASet is a lookup of absent-value markers.
type NASet map[string]struct{}

// NewNASet builds a lookup from markers. A nil slice yields DefaultNAValues.
func NewNASet(markers []string) NASet {
	if markers == nil {
		markers = DefaultNAValues
	}
	s := make(NASet, len(markers))
	for _, m := range markers {
		s[m] = struct{}{}
	}
	return s
}

// Contains reports whether raw is an absent marker.
func (s NASet) Contains(raw string) bool {
	_, ok := s[raw]
	return ok
}

// FromRecords builds a table from a header and raw string records, inferring
// each column's Kind. A column is Number when every present field parses as
// a float; a column with no present fields is Number as well. Short records
// are padded with absent cells; callers reject long records beforehand.
func FromRecords(header []string, records [][]string, na NASet) *Table {
	if na == nil {
		na = NewNASet(nil)
	}
	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i] = Column{Name: h, Kind: Number}
	}
	for _, rec := range records {
		for i := 0; i < len(cols) && i < len(rec); i++ {
			if cols[i].Kind == Text || na.Contains(rec[i]) {
				continue
			}
			if _, err := parseNumber(rec[i]); err != nil {
				cols[i].Kind = Text
			}
		}
	}

	t := New(cols...)
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cols))
		for i := range cols {
			if i >= len(rec) || na.Contains(rec[i]) {
				continue
			}
			if cols[i].Kind == Number {
				f, _ := parseNumber(rec[i])
				row[i] = Num(f)
			} else {
				row[i] = Str(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
