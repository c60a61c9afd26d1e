// Package stats computes the per-column summary written by the reporter.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"analytics/internal/table"
)

// NumericStats are the row labels of a numeric summary, in output order.
var NumericStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// TextStats are the row labels used when a table has no numeric columns.
var TextStats = []string{"count", "unique", "top", "freq"}

// Summary is a describe() style result: Stats label the rows, Columns
// label the columns and Cells[i][j] is statistic i of column j.
type Summary struct {
	Stats   []string
	Columns []string
	Cells   [][]table.Value
}

// Describe summarizes every Number column of t. NaN values are ignored. A
// column with no values reports count 0 and NaN elsewhere; std needs at
// least two values.
//
// When t has no Number columns every column is summarized as text with
// count, unique, top and freq instead. A table without columns yields an
// empty Summary.
func Describe(t *table.Table) Summary {
	var num []int
	for i, c := range t.Columns {
		if c.Kind == table.Number {
			num = append(num, i)
		}
	}
	if len(num) == 0 {
		return describeText(t)
	}

	s := Summary{Stats: NumericStats, Cells: make([][]table.Value, len(NumericStats))}
	for i := range s.Cells {
		s.Cells[i] = make([]table.Value, len(num))
	}
	for j, ci := range num {
		s.Columns = append(s.Columns, t.Columns[ci].Name)
		xs := make([]float64, 0, len(t.Rows))
		for _, r := range t.Rows {
			if f, ok := r[ci].Float(); ok && !math.IsNaN(f) {
				xs = append(xs, f)
			}
		}
		for i, v := range numeric(xs) {
			s.Cells[i][j] = table.Num(v)
		}
	}
	return s
}

func numeric(xs []float64) []float64 {
	nan := math.NaN()
	out := []float64{float64(len(xs)), nan, nan, nan, nan, nan, nan, nan}
	if len(xs) == 0 {
		return out
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	out[1] = stat.Mean(xs, nil)
	if len(xs) > 1 {
		out[2] = stat.StdDev(xs, nil)
	}
	out[3] = floats.Min(xs)
	out[4] = Percentile(sorted, 0.25)
	out[5] = Percentile(sorted, 0.50)
	out[6] = Percentile(sorted, 0.75)
	out[7] = floats.Max(xs)
	return out
}

// Percentile returns the p-quantile (0 <= p <= 1) of sorted using linear
// interpolation between the closest ranks: position p*(n-1), interpolated
// between its floor and ceiling. sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func describeText(t *table.Table) Summary {
	s := Summary{Stats: TextStats, Cells: make([][]table.Value, len(TextStats))}
	for i := range s.Cells {
		s.Cells[i] = make([]table.Value, len(t.Columns))
	}
	for j, c := range t.Columns {
		s.Columns = append(s.Columns, c.Name)

		counts := map[string]int{}
		var order []string
		var present int
		for _, r := range t.Rows {
			v := r[j]
			if v.IsAbsent() {
				continue
			}
			present++
			k := v.String()
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}

		s.Cells[0][j] = table.Num(float64(present))
		s.Cells[1][j] = table.Num(float64(len(order)))
		if len(order) == 0 {
			s.Cells[2][j] = table.Absent()
			s.Cells[3][j] = table.Absent()
			continue
		}
		// Ties resolve to the value seen first.
		top := order[0]
		for _, k := range order[1:] {
			if counts[k] > counts[top] {
				top = k
			}
		}
		s.Cells[2][j] = table.Str(top)
		s.Cells[3][j] = table.Num(float64(counts[top]))
	}
	return s
}
