// Package xlsx reads the first (or a named) worksheet of an Excel workbook
// into a typed table. The first row is the header.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"analytics/internal/parser"
	"analytics/internal/table"
)

// Options configures the workbook reader.
type Options struct {
	// Sheet names the worksheet to read. Empty selects the first sheet.
	Sheet string

	// NAValues lists cell contents treated as absent; nil selects
	// table.DefaultNAValues.
	NAValues []string

	// NormalizeHeaders and HeaderMap behave as for CSV input.
	NormalizeHeaders bool
	HeaderMap        map[string]string
}

// Parser reads workbooks according to Options.
type Parser struct{ opt Options }

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the workbook from r. Unreadable workbooks, a missing sheet and
// an empty sheet fail with an error wrapping parser.ErrMalformed.
func (p *Parser) Parse(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", parser.ErrMalformed, err)
	}
	defer f.Close()

	sheet := p.opt.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found", parser.ErrMalformed, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", parser.ErrMalformed, sheet, err)
	}

	// GetRows trims trailing empty rows but keeps interior ones; drop them
	// to match the CSV reader's blank-line handling.
	var header []string
	var records [][]string
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = parser.NormalizeHeaders(row, parser.HeaderOptions{
				Normalize: p.opt.NormalizeHeaders,
				Map:       p.opt.HeaderMap,
			})
			continue
		}
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row wider than header (%d > %d)", parser.ErrMalformed, len(row), len(header))
		}
		records = append(records, row)
	}
	if header == nil {
		return nil, fmt.Errorf("%w: sheet %q is empty", parser.ErrMalformed, sheet)
	}

	return table.FromRecords(header, records, table.NewNASet(p.opt.NAValues)), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
