// Package transformer defines table-to-table pipeline steps.
package transformer

import (
	"fmt"

	"analytics/internal/table"
)

// Transformer maps one table to another. Implementations must not mutate
// their input.
type Transformer interface {
	Name() string
	Apply(in *table.Table) (*table.Table, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer in order, feeding each the previous output.
// The first error stops the chain and is wrapped with the step name.
func (c Chain) Apply(in *table.Table) (*table.Table, error) {
	out := in
	for _, t := range c {
		next, err := t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		out = next
	}
	return out, nil
}
