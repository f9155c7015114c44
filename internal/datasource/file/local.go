// Package file implements the local filesystem I/O layer: dataset sources,
// atomic output files and the directory layout that maps logical dataset
// names to paths.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local is a single file on the local disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound filesystem path.
func (l *Local) Path() string { return l.path }

// Open opens the file for reading. A context that is already done short
// circuits without touching the filesystem. Filesystem errors are wrapped
// with the path and still match os.ErrNotExist and friends.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// WriteAtomic creates parent directories, lets fill write the content to a
// temporary file next to the target and renames it into place. On any error
// the target is left untouched.
func (l *Local) WriteAtomic(ctx context.Context, fill func(io.Writer) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(l.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", l.path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	// CreateTemp uses 0600; cleaned outputs are shared files.
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("rename to %s: %w", l.path, err)
	}
	return nil
}
