package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesclean/internal/storage"
	"salesclean/pkg/records"
)

func newSink(t *testing.T) *Sink {
	t.Helper()
	s, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:", BatchSize: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.(*Sink)
}

func ordersDataset() records.Dataset {
	return records.Dataset{
		Name:    "orders",
		Columns: []string{"order_id", "purchase_ts", "usd_price", "currency"},
		Rows: []records.Record{
			{"order_id": "O1", "purchase_ts": time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC), "usd_price": decimal.RequireFromString("10.50"), "currency": "USD"},
			{"order_id": "O2", "purchase_ts": time.Date(2021, 3, 2, 11, 0, 0, 0, time.UTC), "usd_price": decimal.RequireFromString("0.99"), "currency": nil},
			{"order_id": "O3", "purchase_ts": time.Date(2021, 3, 3, 12, 0, 0, 0, time.UTC), "usd_price": decimal.RequireFromString("100"), "currency": "EUR"},
		},
	}
}

func TestSink_WriteAndReplace(t *testing.T) {
	s := newSink(t)
	ctx := context.Background()

	n, err := s.Write(ctx, ordersDataset())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// A second write replaces the table rather than appending.
	n, err = s.Write(ctx, ordersDataset())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "orders_cleaned"`).Scan(&count))
	assert.Equal(t, 3, count)

	var ts, price string
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT CAST(purchase_ts AS TEXT), CAST(usd_price AS TEXT) FROM "orders_cleaned" WHERE order_id = 'O1'`,
	).Scan(&ts, &price))
	assert.Equal(t, "2021-03-01 10:00:00", ts)
	assert.Equal(t, "10.5", price)

	var nulls int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM "orders_cleaned" WHERE currency IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestCreateTableSQL(t *testing.T) {
	got, err := createTableSQL("geo", []string{"country_code", `we"ird`}, []storage.Kind{storage.KindText, storage.KindTimestamp}, "country_code")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE \"geo\" (\n  \"country_code\" TEXT NOT NULL,\n  \"we\"\"ird\" TIMESTAMP,\n  PRIMARY KEY (\"country_code\")\n);", got)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
