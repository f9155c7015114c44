// Package postgres registers the "postgres" sink using pgx v5. Each Write
// recreates the dataset table and bulk-loads it with COPY, all inside one
// transaction, so readers see either the previous or the new table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"salesclean/internal/storage"
	"salesclean/internal/storage/ddl"
	"salesclean/pkg/records"
)

// Sink is a Postgres-backed storage.Sink.
type Sink struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// Open connects a pool and verifies it with a ping.
func Open(ctx context.Context, cfg storage.Config) (*Sink, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Sink{pool: pool, cfg: cfg}, nil
}

func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}

// Write replaces the dataset table with the rows of ds.
func (s *Sink) Write(ctx context.Context, ds records.Dataset) (int64, error) {
	if len(ds.Columns) == 0 {
		return 0, fmt.Errorf("postgres: dataset %s has no columns", ds.Name)
	}
	ident := tableIdent(s.cfg.Schema, s.cfg.Table(ds.Name))
	kinds := storage.InferKinds(ds)
	rows := storage.Rows(ds, kinds, toPG)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("postgres: drop %s: %w", ident.Sanitize(), err)
	}
	create, err := createTableSQL(ident, ds.Columns, kinds, storage.PrimaryKey(ds))
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("postgres: create %s: %w", ident.Sanitize(), err)
	}

	n, err := storage.LoadBatches(ctx, s.cfg.Log(), ds.Columns, rows, s.cfg.Batch(),
		func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
			n, err := tx.CopyFrom(ctx, ident, cols, pgx.CopyFromRows(batch))
			return n, copyErr(err)
		})
	if err != nil {
		return n, err
	}
	if err := tx.Commit(ctx); err != nil {
		return n, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// copyErr surfaces the server detail of COPY failures.
func copyErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("postgres: copy: %s (%s): %w", pgErr.Detail, pgErr.SQLState(), err)
	}
	return fmt.Errorf("postgres: copy: %w", err)
}

// toPG converts decimals to pgtype.Numeric so COPY encodes them exactly.
// Timestamps go into a zone-less column and are written in UTC.
func toPG(k storage.Kind, v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		if k == storage.KindDecimal {
			return pgtype.Numeric{Int: x.Coefficient(), Exp: x.Exponent(), Valid: true}
		}
	case time.Time:
		return x.UTC()
	}
	return v
}

func sqlType(k storage.Kind) string {
	switch k {
	case storage.KindTimestamp:
		return "TIMESTAMP"
	case storage.KindDecimal:
		return "NUMERIC"
	}
	return "TEXT"
}

func createTableSQL(ident pgx.Identifier, cols []string, kinds []storage.Kind, key string) (string, error) {
	types := make([]string, len(cols))
	for i := range cols {
		types[i] = sqlType(kinds[i])
	}
	return ddl.BuildCreateTableSQL(ddl.Table(ident.Sanitize(), cols, types, key), func(c string) string {
		return pgx.Identifier{c}.Sanitize()
	})
}

// tableIdent builds the destination identifier. A dotted table name is split
// into schema and table when no explicit schema is configured.
func tableIdent(schema, table string) pgx.Identifier {
	var id pgx.Identifier
	if schema != "" {
		id = append(id, schema)
	}
	for _, p := range strings.Split(table, ".") {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return Open(ctx, cfg)
	})
}
