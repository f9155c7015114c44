// Package datasource defines how raw dataset bytes are obtained.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw bytes of one dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
