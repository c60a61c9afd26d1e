package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"analytics/internal/stats"
	"analytics/internal/table"
)

func idSales(t *testing.T) stats.Summary {
	t.Helper()
	tbl := table.New(
		table.Column{Name: "id", Kind: table.Number},
		table.Column{Name: "sales", Kind: table.Number},
	)
	require.NoError(t, tbl.Append(table.Row{table.Num(1), table.Num(10)}))
	require.NoError(t, tbl.Append(table.Row{table.Num(2), table.Num(20)}))
	return stats.Describe(tbl)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, idSales(t)))

	want := `,id,sales
count,2.0,2.0
mean,1.5,15.0
std,0.7071067811865476,7.0710678118654755
min,1.0,10.0
25%,1.25,12.5
50%,1.5,15.0
75%,1.75,17.5
max,2.0,20.0
`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_NaNIsEmpty(t *testing.T) {
	s := stats.Summary{
		Stats:   []string{"std"},
		Columns: []string{"x"},
		Cells:   [][]table.Value{{table.Num(math.NaN())}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Equal(t, ",x\nstd,\n", buf.String())
}

func TestWriteCSVFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics_summary.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is long\n"), 0o644))

	require.NoError(t, WriteCSVFile(path, idSales(t)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte(",id,sales\ncount,")))
	assert.NotContains(t, string(b), "stale")
}

func TestWriteCSVFile_BadDirectory(t *testing.T) {
	err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "out.csv"), idSales(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteXLSX(path, idSales(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"", "id", "sales"}, rows[0])
	assert.Equal(t, "count", rows[1][0])
	assert.Equal(t, "15", rows[2][2])
}
