// Package csv reads delimited text into a typed table. The first record is
// the header; every following non-blank line is one row.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"analytics/internal/parser"
	"analytics/internal/table"
)

// Options configures the CSV parser. The zero value reads comma-separated
// input with the default absent-value markers.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value before
	// absent-marker matching and type inference.
	TrimSpace bool

	// NormalizeHeaders lowercases header names, folds diacritics and turns
	// spaces into underscores.
	NormalizeHeaders bool

	// HeaderMap renames source header names to canonical keys. It is applied
	// before NormalizeHeaders and takes precedence over it.
	HeaderMap map[string]string

	// NAValues lists field contents treated as absent. nil selects
	// table.DefaultNAValues; an empty non-nil slice treats every field as
	// present.
	NAValues []string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs but not concurrency-safe.
type Parser struct{ opt Options }

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// ErrTooManyFields marks a data row wider than the header.
var ErrTooManyFields = errors.New("too many fields")

// Parse reads all of r into a table. Rows with fewer fields than the header
// are padded with absent cells. Quote errors, rows wider than the header and
// input without a header line fail with an error wrapping parser.ErrMalformed.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Width is enforced below so short rows can be padded.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse from input", parser.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %w", parser.ErrMalformed, err)
	}
	headers := parser.NormalizeHeaders(h, parser.HeaderOptions{
		Normalize: p.opt.NormalizeHeaders,
		Map:       p.opt.HeaderMap,
	})

	var records [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", parser.ErrMalformed, err)
		}
		if len(row) > len(headers) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: %w", parser.ErrMalformed, &csv.ParseError{
				StartLine: line,
				Line:      line,
				Column:    len(headers) + 1,
				Err:       fmt.Errorf("%w: expected %d, saw %d", ErrTooManyFields, len(headers), len(row)),
			})
		}
		if p.opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, row)
	}

	return table.FromRecords(headers, records, table.NewNASet(p.opt.NAValues)), nil
}
