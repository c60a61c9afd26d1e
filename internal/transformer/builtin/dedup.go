package builtin

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/zeebo/xxh3"

	"analytics/internal/table"
	"analytics/internal/transformer"
)

// DeDup collapses rows that share the same key.
//
//   - "keep-first": keep the earliest occurrence (default)
//   - "keep-last" : keep the latest occurrence, at the position of the first
//
// Keys are the columns forming the key; empty means every column. Rows are
// keyed by an xxh3 128-bit hash of their typed cells, so a text "1" and a
// numeric 1 never collide by construction.
type DeDup struct {
	Keys   []string
	Policy string
}

var _ transformer.Transformer = DeDup{}

// Name implements transformer.Transformer.
func (DeDup) Name() string { return "dedup" }

// Apply implements transformer.Transformer.
func (d DeDup) Apply(in *table.Table) (*table.Table, error) {
	idx, err := d.keyIndexes(in)
	if err != nil {
		return nil, err
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	switch policy {
	case "", "keep-first", "keep-last":
	default:
		return nil, fmt.Errorf("dedup: unknown policy %q", d.Policy)
	}

	out := table.New(in.Columns...)
	pos := make(map[xxh3.Uint128]int, len(in.Rows))
	var buf []byte
	for _, r := range in.Rows {
		buf = encodeKey(buf[:0], r, idx)
		k := xxh3.Hash128(buf)
		if at, seen := pos[k]; seen {
			if policy == "keep-last" {
				out.Rows[at] = r
			}
			continue
		}
		pos[k] = len(out.Rows)
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

func (d DeDup) keyIndexes(t *table.Table) ([]int, error) {
	if len(d.Keys) == 0 {
		idx := make([]int, len(t.Columns))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	idx := make([]int, len(d.Keys))
	for i, k := range d.Keys {
		j := t.Index(k)
		if j < 0 {
			return nil, fmt.Errorf("dedup: %w: %q", table.ErrNoColumn, k)
		}
		idx[i] = j
	}
	return idx, nil
}

// encodeKey appends a tagged, length-prefixed encoding of the key cells.
func encodeKey(buf []byte, r table.Row, idx []int) []byte {
	for _, i := range idx {
		v := r[i]
		if f, ok := v.Float(); ok {
			buf = append(buf, 'n')
			if math.IsNaN(f) {
				f = math.NaN()
			}
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
			continue
		}
		if s, ok := v.Text(); ok {
			buf = append(buf, 's')
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
			buf = append(buf, s...)
			continue
		}
		buf = append(buf, 0)
	}
	return buf
}
