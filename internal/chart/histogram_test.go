package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(bins []Bin) (total int) {
	for _, b := range bins {
		total += b.Count
	}
	return total
}

func TestBins(t *testing.T) {
	bins, err := Bins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 20)
	require.NoError(t, err)

	require.Len(t, bins, 20)
	assert.Equal(t, 0.0, bins[0].Min)
	assert.Equal(t, 10.0, bins[19].Max)
	assert.Equal(t, 11, counts(bins))
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[19].Count, "max lands in the last bin")
	for i := 1; i < len(bins); i++ {
		assert.InDelta(t, 0.5, bins[i].Max-bins[i].Min, 1e-12)
	}
}

func TestBins_Degenerate(t *testing.T) {
	bins, err := Bins([]float64{4, 4, math.NaN()}, 20)
	require.NoError(t, err)
	assert.Equal(t, 3.5, bins[0].Min)
	assert.Equal(t, 4.5, bins[19].Max)
	assert.Equal(t, 2, counts(bins))

	bins, err = Bins(nil, 20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bins[0].Min)
	assert.Equal(t, 1.0, bins[19].Max)
	assert.Equal(t, 0, counts(bins))
}

func TestBins_Errors(t *testing.T) {
	_, err := Bins([]float64{1}, 0)
	assert.Error(t, err)

	_, err = Bins([]float64{1, math.Inf(1)}, 5)
	assert.Error(t, err)
}

func TestRender_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_histogram.png")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, Render(path, []float64{10, 20, 20, 35}, DefaultOptions()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")), "png signature")
}

func TestRender_BadPath(t *testing.T) {
	err := Render(filepath.Join(t.TempDir(), "nope", "h.png"), []float64{1}, DefaultOptions())
	assert.Error(t, err)
}
