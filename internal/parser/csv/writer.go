package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"salesclean/pkg/records"
)

// Writer persists a dataset as UTF-8 CSV: a header row followed by one line
// per record in dataset column order. No row-index column is written.
type Writer struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune
}

// Write writes ds to w. Null cells are written as empty fields.
func (wr Writer) Write(w io.Writer, ds records.Dataset) error {
	cw := csv.NewWriter(w)
	if wr.Comma != 0 {
		cw.Comma = wr.Comma
	}
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(ds.Columns))
	for i, r := range ds.Rows {
		for j, c := range ds.Columns {
			row[j] = records.Format(r[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
