// Package parser defines the table parser contract used by the loader.
package parser

import (
	"io"

	"salesclean/pkg/records"
)

// Parser reads a whole table from r. It returns the dataset, the number of
// rows skipped as unreadable, and an error only when r is not a table.
type Parser interface {
	Parse(name string, r io.Reader) (records.Dataset, int, error)
}
