// Package ddl defines a small, dialect-neutral model for the tables the SQL
// sinks create and renders it as a CREATE TABLE statement.
//
// Dialects differ only in identifier quoting, so renderers take a Quoter.
// TableDef.FQN is emitted verbatim; the caller sanitizes it.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes one column.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the rendered table name and the ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Quoter quotes one identifier.
type Quoter func(string) string

// DoubleQuote is the standard SQL quoter shared by SQLite and PostgreSQL.
func DoubleQuote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// Table builds a TableDef from parallel name/type slices. Every column is
// nullable except key, which becomes the primary key; an empty key declares
// none.
func Table(fqn string, names, types []string, key string) TableDef {
	t := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(names))}
	for i, n := range names {
		t.Columns[i] = ColumnDef{Name: n, SQLType: types[i], Nullable: n != key, PrimaryKey: n == key}
	}
	return t
}

// BuildCreateTableSQL renders
//
//	CREATE TABLE <FQN> (
//	  <col> <TYPE> [NOT NULL],
//	  ...,
//	  [PRIMARY KEY (<pk-cols>)]
//	);
//
// A nil quote emits column names as-is.
func BuildCreateTableSQL(t TableDef, quote Quoter) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	if quote == nil {
		quote = func(s string) string { return s }
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		if seen[name] {
			return "", fmt.Errorf("ddl: duplicate column %s in table %s", name, fqn)
		}
		seen[name] = true
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		def := quote(name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pks = append(pks, quote(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", fqn, strings.Join(cols, ",\n  ")), nil
}
