// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrIsDir is returned when the configured path names a directory.
var ErrIsDir = errors.New("path is a directory")

// Local is a filesystem data source that opens one file from the local disk.
type Local struct{ path string }

// NewLocal returns a Local data source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Name returns the configured path.
func (l *Local) Name() string { return l.path }

// Open opens the configured path for reading.
//
// Behavior:
//   - A canceled context short-circuits before touching the filesystem.
//   - A missing path yields an error for which errors.Is(err, os.ErrNotExist)
//     holds; the path is included in the message.
//   - A directory yields ErrIsDir.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	fi, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("open %s: %w", l.path, ErrIsDir)
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
