package file

import (
	"fmt"
	"path/filepath"
)

// Layout resolves dataset locations from a base directory:
//
//	<base>/data/processed/<name>.csv          raw inputs
//	<base>/data/cleaned/<name>_cleaned.csv    cleaned outputs
type Layout struct {
	Base      string
	InputDir  string // relative to Base
	OutputDir string // relative to Base
	// InputName and OutputName are fmt patterns applied to the dataset name.
	InputName  string
	OutputName string
}

// DefaultLayout returns the conventional layout rooted at base.
func DefaultLayout(base string) Layout {
	return Layout{
		Base:       base,
		InputDir:   filepath.Join("data", "processed"),
		OutputDir:  filepath.Join("data", "cleaned"),
		InputName:  "%s.csv",
		OutputName: "%s_cleaned.csv",
	}
}

// Input returns the raw input path for dataset name.
func (l Layout) Input(name string) string {
	return filepath.Join(l.Base, l.InputDir, fmt.Sprintf(l.InputName, name))
}

// Output returns the cleaned output path for dataset name.
func (l Layout) Output(name string) string {
	return filepath.Join(l.Base, l.OutputDir, fmt.Sprintf(l.OutputName, name))
}

// Source returns a readable Local for the raw input of name.
func (l Layout) Source(name string) *Local { return NewLocal(l.Input(name)) }

// Sink returns a writable Local for the cleaned output of name.
func (l Layout) Sink(name string) *Local { return NewLocal(l.Output(name)) }
