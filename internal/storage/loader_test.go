package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"analytics/internal/table"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func rowsOf(n int) [][]any {
	out := make([][]any, n)
	for i := range out {
		out[i] = []any{float64(i), "x"}
	}
	return out
}

// TestLoadBatches_Basic verifies rows are grouped into batches and copyFn is
// called with the expected counts.
func TestLoadBatches_Basic(t *testing.T) {
	t.Parallel()

	var sizes []int
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		sizes = append(sizes, len(rows))
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(context.Background(), discard, []string{"c1", "c2"}, rowsOf(7), 3, copyFn)
	if err != nil {
		t.Fatalf("LoadBatches error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total rows %d, want 7", total)
	}
	if len(sizes) != 3 || sizes[0] != 3 || sizes[1] != 3 || sizes[2] != 1 {
		t.Fatalf("batch sizes %v, want [3 3 1]", sizes)
	}
}

func TestLoadBatches_Empty(t *testing.T) {
	t.Parallel()

	calls := 0
	copyFn := func(context.Context, []string, [][]any) (int64, error) {
		calls++
		return 0, nil
	}
	total, err := LoadBatches(context.Background(), discard, []string{"c"}, nil, 10, copyFn)
	if err != nil || total != 0 || calls != 0 {
		t.Fatalf("got total=%d err=%v calls=%d, want 0/nil/0", total, err, calls)
	}
}

// TestLoadBatches_ErrorPropagation ensures the first copy error is propagated
// and processing stops after that batch.
func TestLoadBatches_ErrorPropagation(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("copy failed")
	var batches int
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		batches++
		if batches == 2 {
			return 0, wantErr
		}
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(context.Background(), discard, []string{"c"}, rowsOf(5), 2, copyFn)
	if !errors.Is(err, wantErr) {
		t.Fatalf("want error %v, got %v", wantErr, err)
	}
	if total != 2 || batches != 2 {
		t.Fatalf("total=%d batches=%d, want 2/2", total, batches)
	}
}

func TestLoadBatches_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	copyFn := func(context.Context, []string, [][]any) (int64, error) {
		t.Fatal("copyFn called after cancel")
		return 0, nil
	}
	if _, err := LoadBatches(ctx, discard, []string{"c"}, rowsOf(3), 2, copyFn); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadBatches_BadArgs(t *testing.T) {
	t.Parallel()

	if _, err := LoadBatches(context.Background(), discard, nil, nil, 0, nil); err == nil {
		t.Fatal("batchSize 0 accepted")
	}
	if _, err := LoadBatches(context.Background(), discard, nil, nil, 1, nil); err == nil {
		t.Fatal("nil copyFn accepted")
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	tbl := table.New(
		table.Column{Name: "n", Kind: table.Number},
		table.Column{Name: "s", Kind: table.Text},
	)
	_ = tbl.Append(table.Row{table.Num(1.5), table.Str("a")})
	_ = tbl.Append(table.Row{table.Num(math.NaN()), table.Absent()})

	got := Rows(tbl)
	if got[0][0] != 1.5 || got[0][1] != "a" {
		t.Fatalf("row 0 = %v", got[0])
	}
	if got[1][0] != nil || got[1][1] != nil {
		t.Fatalf("row 1 = %v, want NaN and absent as nil", got[1])
	}
}
