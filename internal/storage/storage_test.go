package storage

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"salesclean/pkg/records"
)

// fakeSink is a minimal Sink implementation for tests.
type fakeSink struct {
	closed bool
}

func (f *fakeSink) Write(_ context.Context, ds records.Dataset) (int64, error) {
	return int64(len(ds.Rows)), nil
}
func (f *fakeSink) Close() error { f.closed = true; return nil }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding sink.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Sink, error) {
		return &fakeSink{}, nil
	})

	s, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s == nil {
		t.Fatalf("New returned nil sink")
	}
	if !slices.Contains(ListKinds(), kind) {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported sink kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind overrides the
// previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	calls := 0
	Register(kind, func(ctx context.Context, cfg Config) (Sink, error) {
		calls++
		return &fakeSink{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Sink, error) {
		calls += 10
		return &fakeSink{}, nil
	})

	if _, err := New(context.Background(), Config{Kind: kind}); err != nil {
		t.Fatalf("New error: %v", err)
	}
	if calls != 10 {
		t.Fatalf("factory call count = %d, want 10", calls)
	}
}

// TestRegister_AllowsErrors shows factories can return errors that bubble up.
func TestRegister_AllowsErrors(t *testing.T) {
	t.Parallel()

	kind := "errkind"
	want := errors.New("boom")
	Register(kind, func(ctx context.Context, cfg Config) (Sink, error) {
		return nil, want
	})

	_, err := New(context.Background(), Config{Kind: kind})
	if !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if got := c.Table("orders"); got != "orders_cleaned" {
		t.Fatalf("Table=%q", got)
	}
	if got := c.Batch(); got != 5000 {
		t.Fatalf("Batch=%d", got)
	}
	c.TableName = "clean_%s"
	if got := c.Table("orders"); got != "clean_orders" {
		t.Fatalf("Table=%q", got)
	}
}

/*
TestInferKinds checks that typed columns are detected only when every
non-null value agrees, and that Rows formats text columns.
*/
func TestInferKinds(t *testing.T) {
	ts := time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)
	price := decimal.RequireFromString("12.50")
	ds := records.Dataset{
		Columns: []string{"id", "ts", "price", "mixed", "empty"},
		Rows: []records.Record{
			{"id": "a", "ts": ts, "price": price, "mixed": ts},
			{"id": "b", "ts": nil, "price": price, "mixed": "x"},
		},
	}
	kinds := InferKinds(ds)
	want := []Kind{KindText, KindTimestamp, KindDecimal, KindText, KindText}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds=%v want %v", kinds, want)
	}

	rows := Rows(ds, kinds, func(k Kind, v any) any {
		if k == KindDecimal {
			return v.(decimal.Decimal).String()
		}
		return v
	})
	if got := rows[0]; got[0] != "a" || got[1] != ts || got[2] != "12.5" || got[3] != "2021-01-02 03:04:05" || got[4] != nil {
		t.Fatalf("row 0 = %#v", got)
	}
	if rows[1][1] != nil {
		t.Fatalf("null timestamp = %#v, want nil", rows[1][1])
	}
}

// TestLoadBatches_Basic verifies rows are grouped into batches and copyFn is
// called with the expected counts.
func TestLoadBatches_Basic(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = []any{i, "x"}
	}
	var sizes []int
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		sizes = append(sizes, len(batch))
		return int64(len(batch)), nil
	}

	total, err := LoadBatches(context.Background(), zerolog.Nop(), []string{"c1", "c2"}, rows, 3, copyFn)
	if err != nil {
		t.Fatalf("LoadBatches error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total rows %d, want 7", total)
	}
	if !reflect.DeepEqual(sizes, []int{3, 3, 1}) {
		t.Fatalf("batch sizes %v, want [3 3 1]", sizes)
	}
}

// TestLoadBatches_ErrorPropagation ensures the first copy error is returned
// and processing stops after that batch.
func TestLoadBatches_ErrorPropagation(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 5)
	wantErr := errors.New("copy failed")
	var batches int
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		batches++
		if batches == 2 {
			return 0, wantErr
		}
		return int64(len(batch)), nil
	}

	total, err := LoadBatches(context.Background(), zerolog.Nop(), []string{"c"}, rows, 2, copyFn)
	if !errors.Is(err, wantErr) {
		t.Fatalf("want error %v, got %v", wantErr, err)
	}
	if total != 2 || batches != 2 {
		t.Fatalf("total=%d batches=%d, want 2 and 2", total, batches)
	}
}

func TestLoadBatches_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err := LoadBatches(ctx, zerolog.Nop(), []string{"c"}, [][]any{{1}}, 1, func(context.Context, []string, [][]any) (int64, error) {
		called = true
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestLoadBatches_BadArgs(t *testing.T) {
	if _, err := LoadBatches(context.Background(), zerolog.Nop(), nil, nil, 0, nil); err == nil {
		t.Fatal("expected error for batchSize 0")
	}
	if _, err := LoadBatches(context.Background(), zerolog.Nop(), nil, nil, 1, nil); err == nil {
		t.Fatal("expected error for nil copyFn")
	}
}

/*
TestPrimaryKey checks that a key is declared only for known datasets whose
key column is fully populated.
*/
func TestPrimaryKey(t *testing.T) {
	orders := records.Dataset{
		Name:    "orders",
		Columns: []string{"order_id", "currency"},
		Rows:    []records.Record{{"order_id": "O1"}, {"order_id": "O2", "currency": "USD"}},
	}
	if got := PrimaryKey(orders); got != "order_id" {
		t.Fatalf("PrimaryKey(orders) = %q", got)
	}

	orders.Rows = append(orders.Rows, records.Record{"order_id": nil})
	if got := PrimaryKey(orders); got != "" {
		t.Fatalf("null key must disable the primary key, got %q", got)
	}

	other := records.Dataset{Name: "refunds", Columns: []string{"order_id"}}
	if got := PrimaryKey(other); got != "" {
		t.Fatalf("unknown dataset got key %q", got)
	}
}
