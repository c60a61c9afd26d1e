package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_InfersKinds(t *testing.T) {
	header := []string{"id", "sales", "region", "empty"}
	recs := [][]string{
		{"1", "10.5", "north", ""},
		{"2", "", "south", "NA"},
		{"3", " 7 ", "3", ""},
	}

	tbl := FromRecords(header, recs, nil)

	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []Column{
		{Name: "id", Kind: Number},
		{Name: "sales", Kind: Number},
		{Name: "region", Kind: Text},
		{Name: "empty", Kind: Number},
	}, tbl.Columns)

	f, ok := tbl.Rows[0][1].Float()
	require.True(t, ok)
	assert.Equal(t, 10.5, f)
	assert.True(t, tbl.Rows[1][1].IsAbsent())
	assert.True(t, tbl.Rows[1][3].IsAbsent())

	s, ok := tbl.Rows[2][2].Text()
	require.True(t, ok)
	assert.Equal(t, "3", s)
}

func TestFromRecords_PadsShortRecords(t *testing.T) {
	tbl := FromRecords([]string{"a", "b"}, [][]string{{"1"}}, nil)

	require.Equal(t, 1, tbl.Len())
	require.Len(t, tbl.Rows[0], 2)
	assert.True(t, tbl.Rows[0][1].IsAbsent())
}

func TestFromRecords_CustomNAValues(t *testing.T) {
	tbl := FromRecords([]string{"a"}, [][]string{{"NA"}, {"-"}}, NewNASet([]string{"-"}))

	assert.Equal(t, Text, tbl.Columns[0].Kind, "NA is a literal once it is not a marker")
	assert.False(t, tbl.Rows[0][0].IsAbsent())
	assert.True(t, tbl.Rows[1][0].IsAbsent())
}

func TestNumbers(t *testing.T) {
	tbl := New(Column{Name: "x", Kind: Number}, Column{Name: "y", Kind: Text})
	require.NoError(t, tbl.Append(Row{Num(1), Str("a")}))
	require.NoError(t, tbl.Append(Row{Absent(), Str("b")}))
	require.NoError(t, tbl.Append(Row{Num(3), Absent()}))

	got, err := tbl.Numbers("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, got)

	_, err = tbl.Numbers("y")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = tbl.Numbers("z")
	assert.ErrorIs(t, err, ErrNoColumn)
}

func TestAppend_RejectsWrongWidth(t *testing.T) {
	tbl := New(Column{Name: "x"})
	assert.Error(t, tbl.Append(Row{Num(1), Num(2)}))
}

func TestWithColumn_DoesNotMutateReceiver(t *testing.T) {
	tbl := New(Column{Name: "x", Kind: Number})
	require.NoError(t, tbl.Append(Row{Num(1)}))
	before := tbl.Clone()

	out, err := tbl.WithColumn(Column{Name: "y", Kind: Number}, []Value{Num(2)})
	require.NoError(t, err)

	assert.True(t, tbl.Equal(before))
	assert.Equal(t, []string{"x", "y"}, out.Names())
	f, _ := out.Rows[0][1].Float()
	assert.Equal(t, 2.0, f)

	_, err = tbl.WithColumn(Column{Name: "x"}, []Value{Num(1)})
	assert.Error(t, err, "duplicate column")
	_, err = tbl.WithColumn(Column{Name: "z"}, nil)
	assert.Error(t, err, "value count mismatch")
}

func TestSetColumn_ReplacesInPlace(t *testing.T) {
	tbl := New(Column{Name: "x", Kind: Number}, Column{Name: "y", Kind: Text}, Column{Name: "z", Kind: Number})
	require.NoError(t, tbl.Append(Row{Num(1), Str("a"), Num(3)}))
	before := tbl.Clone()

	out, err := tbl.SetColumn(Column{Name: "y", Kind: Number}, []Value{Num(9)})
	require.NoError(t, err)

	assert.True(t, tbl.Equal(before))
	assert.Equal(t, []string{"x", "y", "z"}, out.Names())
	assert.Equal(t, Number, out.Columns[1].Kind)
	f, _ := out.Rows[0][1].Float()
	assert.Equal(t, 9.0, f)

	appended, err := tbl.SetColumn(Column{Name: "w", Kind: Number}, []Value{Num(4)})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "w"}, appended.Names())

	_, err = tbl.SetColumn(Column{Name: "y"}, nil)
	assert.Error(t, err, "value count mismatch")
}

func TestFilter_KeepsColumns(t *testing.T) {
	tbl := New(Column{Name: "x", Kind: Number})
	require.NoError(t, tbl.Append(Row{Num(1)}))
	require.NoError(t, tbl.Append(Row{Num(2)}))

	out := tbl.Filter(func(Row) bool { return false })

	assert.Equal(t, 0, out.Len())
	assert.Equal(t, tbl.Columns, out.Columns)
	assert.Equal(t, 2, tbl.Len())
}

func TestEqual_TreatsNaNAsEqual(t *testing.T) {
	a := New(Column{Name: "x", Kind: Number})
	b := New(Column{Name: "x", Kind: Number})
	require.NoError(t, a.Append(Row{Num(math.NaN())}))
	require.NoError(t, b.Append(Row{Num(math.NaN())}))

	assert.True(t, a.Equal(b))

	b.Rows[0][0] = Absent()
	assert.False(t, a.Equal(b))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{15, "15.0"},
		{-3.5, "-3.5"},
		{0, "0.0"},
		{7.0710678118654755, "7.0710678118654755"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{123456789012345.0, "123456789012345.0"},
		{math.NaN(), ""},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in), "FormatFloat(%v)", tt.in)
	}
}
