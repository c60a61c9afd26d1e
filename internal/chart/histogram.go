// Package chart renders the sales histogram.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Bin is one equal-width histogram bucket. Every bin is half open except
// the last, which includes its upper edge.
type Bin struct {
	Min, Max float64
	Count    int
}

// Options control the rendered figure.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Bins   int
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions returns the standard sales figure settings.
func DefaultOptions() Options {
	return Options{
		Title:  "Sales Distribution",
		XLabel: "Sales",
		YLabel: "Frequency",
		Bins:   20,
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
	}
}

var fill = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Bins splits values into n equal-width bins spanning [min, max]. NaN
// values are ignored. When every value is equal the range becomes
// [v-0.5, v+0.5]; with no values it is [0, 1].
func Bins(values []float64, n int) ([]Bin, error) {
	if n < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", n)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsInf(v, 0) {
			return nil, errors.New("cannot bin infinite values")
		}
		xs = append(xs, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	switch {
	case len(xs) == 0:
		lo, hi = 0, 1
	case lo == hi:
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[n-1].Max = hi

	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= n {
			i = n - 1
		}
		// Rounding can put x just past a computed edge.
		for i > 0 && x < bins[i].Min {
			i--
		}
		for i < n-1 && x >= bins[i+1].Min {
			i++
		}
		bins[i].Count++
	}
	return bins, nil
}

// Render draws a histogram of values and saves it to path. The image
// format follows the file extension; an existing file is overwritten.
func Render(path string, values []float64, opt Options) error {
	bins, err := Bins(values, opt.Bins)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel

	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	p.Add(&plotter.Histogram{
		Bins:      hb,
		Width:     bins[0].Max - bins[0].Min,
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	})

	if err := p.Save(opt.Width, opt.Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
