// Package parser defines the contract shared by the input format readers.
package parser

import (
	"errors"
	"io"

	"analytics/internal/table"
)

// ErrMalformed is wrapped by every error caused by invalid input content.
var ErrMalformed = errors.New("malformed input")

// Parser turns raw input bytes into a typed table.
type Parser interface {
	Parse(r io.Reader) (*table.Table, error)
}
