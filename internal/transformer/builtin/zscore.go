package builtin

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"analytics/internal/table"
	"analytics/internal/transformer"
)

// Zero-std policies understood by ZScore.
const (
	ZeroStdPassthrough = "passthrough"
	ZeroStdError       = "error"
	ZeroStdZero        = "zero"
)

var (
	// ErrZeroStd is returned under the "error" policy when the column has a
	// zero or undefined sample standard deviation.
	ErrZeroStd = errors.New("standard deviation is zero or undefined")

	// ErrNotNumeric is returned when the source column holds text.
	ErrNotNumeric = table.ErrNotNumeric
)

// ZScore sets Output = (Column - mean) / std, using the sample mean and
// the n-1 standard deviation of the present values of Column. An existing
// Output column is overwritten in place; otherwise it is appended. When
// Column does not exist the input is returned unchanged.
//
// ZeroStd selects what happens when std is 0 or undefined (fewer than two
// values):
//
//   - "passthrough": plain float arithmetic, yielding NaN/Inf cells (default)
//   - "error"      : fail with ErrZeroStd
//   - "zero"       : every present value normalizes to 0
type ZScore struct {
	Column  string
	Output  string
	ZeroStd string
}

var _ transformer.Transformer = ZScore{}

// Name implements transformer.Transformer.
func (ZScore) Name() string { return "zscore" }

// Apply implements transformer.Transformer.
func (z ZScore) Apply(in *table.Table) (*table.Table, error) {
	idx := in.Index(z.Column)
	if idx < 0 {
		return in, nil
	}
	xs, err := in.Numbers(z.Column)
	if err != nil {
		return nil, err
	}

	mean, std := math.NaN(), math.NaN()
	if len(xs) > 0 {
		mean, std = stat.MeanStdDev(xs, nil)
	}
	if len(xs) < 2 {
		std = math.NaN()
	}

	degenerate := std == 0 || math.IsNaN(std)
	if degenerate {
		switch z.ZeroStd {
		case "", ZeroStdPassthrough, ZeroStdZero:
		case ZeroStdError:
			return nil, fmt.Errorf("column %q: %w", z.Column, ErrZeroStd)
		default:
			return nil, fmt.Errorf("unknown zero_std policy %q", z.ZeroStd)
		}
	}

	vals := make([]table.Value, len(in.Rows))
	for i, r := range in.Rows {
		x, ok := r[idx].Float()
		switch {
		case !ok:
			vals[i] = table.Absent()
		case degenerate && z.ZeroStd == ZeroStdZero:
			vals[i] = table.Num(0)
		default:
			vals[i] = table.Num((x - mean) / std)
		}
	}
	return in.SetColumn(table.Column{Name: z.Output, Kind: table.Number}, vals)
}
