// Package sqlite registers the "sqlite" sink backed by modernc.org/sqlite.
// Each Write drops and recreates the dataset table inside one transaction,
// then inserts rows in batches through a prepared statement.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"salesclean/internal/storage"
	"salesclean/internal/storage/ddl"
	"salesclean/pkg/records"
)

// Open opens a SQLite database. DSN is passed to the driver unchanged, e.g.
// "file:clean.db" or ":memory:". In-memory databases are limited to one
// connection so every statement sees the same database.
func Open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Sink is a SQLite-backed storage.Sink.
type Sink struct {
	db  *sql.DB
	cfg storage.Config
}

// New wraps an open database.
func New(db *sql.DB, cfg storage.Config) *Sink { return &Sink{db: db, cfg: cfg} }

// DB exposes the underlying handle, mainly for inspection in tests.
func (s *Sink) DB() *sql.DB { return s.db }

func (s *Sink) Close() error { return s.db.Close() }

// Write replaces the dataset table with the rows of ds.
func (s *Sink) Write(ctx context.Context, ds records.Dataset) (int64, error) {
	if len(ds.Columns) == 0 {
		return 0, fmt.Errorf("sqlite: dataset %s has no columns", ds.Name)
	}
	table := s.cfg.Table(ds.Name)
	kinds := storage.InferKinds(ds)
	rows := storage.Rows(ds, kinds, toSQLite)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("sqlite: drop %s: %w", table, err)
	}
	create, err := createTableSQL(table, ds.Columns, kinds, storage.PrimaryKey(ds))
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("sqlite: create %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, ds.Columns))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	n, err := storage.LoadBatches(ctx, s.cfg.Log(), ds.Columns, rows, s.cfg.Batch(),
		func(ctx context.Context, _ []string, batch [][]any) (int64, error) {
			var inserted int64
			for _, row := range batch {
				if _, err := stmt.ExecContext(ctx, row...); err != nil {
					return inserted, fmt.Errorf("sqlite: insert: %w", err)
				}
				inserted++
			}
			return inserted, nil
		})
	if err != nil {
		return n, err
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// toSQLite stores timestamps in the canonical text layout and decimals as
// exact text; SQLite's NUMERIC affinity would round them to REAL.
func toSQLite(k storage.Kind, v any) any {
	switch k {
	case storage.KindTimestamp, storage.KindDecimal:
		return records.Format(v)
	}
	return v
}

func sqlType(k storage.Kind) string {
	if k == storage.KindTimestamp {
		return "TIMESTAMP"
	}
	return "TEXT"
}

func createTableSQL(table string, cols []string, kinds []storage.Kind, key string) (string, error) {
	types := make([]string, len(cols))
	for i := range cols {
		types[i] = sqlType(kinds[i])
	}
	return ddl.BuildCreateTableSQL(ddl.Table(quoteIdent(table), cols, types, key), ddl.DoubleQuote)
}

func insertSQL(table string, cols []string) string {
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(id string) string { return ddl.DoubleQuote(id) }

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		db, err := Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: ping: %w", err)
		}
		return New(db, cfg), nil
	})
}
