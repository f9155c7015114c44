// Package csv reads delimited-text tables into records.Dataset values and
// writes cleaned datasets back out. Whole tables are held in memory; the
// cleaning stages need the full batch before they start.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"salesclean/internal/parser"
	"salesclean/pkg/records"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv: missing header row")

// Options configures the parser. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing white space from each field value.
	TrimSpace bool

	// NullTokens lists cell values read as null in addition to "".
	NullTokens []string

	// HeaderMap maps source header names to canonical keys. Headers not in
	// the map are normalized with NormalizeHeader.
	HeaderMap map[string]string

	// Logger receives soft-fail row diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct {
	opt Options
	log zerolog.Logger
}

var _ parser.Parser = (*Parser)(nil)

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	l := zerolog.Nop()
	if opt.Logger != nil {
		l = *opt.Logger
	}
	return &Parser{opt: opt, log: l}
}

// skipLogLimit caps per-row diagnostics so a broken file cannot flood logs.
const skipLogLimit = 100

// Parse consumes the whole table from r. The first row is the header. Rows
// that fail to parse or have the wrong width are skipped and counted; the
// returned error is non-nil only when r cannot be read as a table at all.
func (p *Parser) Parse(name string, r io.Reader) (records.Dataset, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	h, err := cr.Read()
	if err == io.EOF {
		return records.Dataset{}, 0, ErrNoHeader
	}
	if err != nil {
		return records.Dataset{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	ds := records.Dataset{Name: name, Columns: p.headers(h)}

	var skipped int
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return records.Dataset{}, 0, fmt.Errorf("read csv row %d: %w", line, err)
			}
			p.skip(skipped, line, err.Error())
			skipped++
			continue
		}
		if len(row) != len(ds.Columns) {
			p.skip(skipped, line, fmt.Sprintf("incorrect number of fields (expected %d, got %d)", len(ds.Columns), len(row)))
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[ds.Columns[i]] = p.cell(val)
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, skipped, nil
}

func (p *Parser) skip(n, line int, reason string) {
	if n < skipLogLimit {
		p.log.Warn().Int("line", line).Str("reason", reason).Msg("skipping csv row")
	}
}

// cell converts a raw field to a record value; null tokens become nil.
func (p *Parser) cell(val string) any {
	if p.opt.TrimSpace {
		val = strings.TrimSpace(val)
	}
	if val == "" || slices.Contains(p.opt.NullTokens, val) {
		return nil
	}
	return val
}

// headers produces canonical, unique column keys.
func (p *Parser) headers(h []string) []string {
	h = StripHeaderBOM(slices.Clone(h))
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		key, ok := p.opt.HeaderMap[c]
		if !ok {
			key = NormalizeHeader(c)
		}
		if n := seen[key]; n > 0 {
			seen[key]++
			key = fmt.Sprintf("%s_%d", key, n+1)
		}
		seen[key]++
		out[i] = key
	}
	return out
}
