// Package datasource defines where pipeline input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw input for a run. Name is used in logs and errors.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}
