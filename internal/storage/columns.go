package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"salesclean/internal/cleaner"
	"salesclean/pkg/records"
)

// Kind is the storage type of a dataset column, inferred from cleaned values.
type Kind int

const (
	KindText Kind = iota
	KindTimestamp
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindDecimal:
		return "decimal"
	}
	return "text"
}

// InferKinds returns one Kind per dataset column. A column is typed only
// when every non-null value shares that type; anything else is text.
func InferKinds(ds records.Dataset) []Kind {
	kinds := make([]Kind, len(ds.Columns))
	for i, c := range ds.Columns {
		kinds[i] = inferColumn(ds.Rows, c)
	}
	return kinds
}

func inferColumn(rows []records.Record, col string) Kind {
	kind, seen := KindText, false
	for _, r := range rows {
		if r.IsNull(col) {
			continue
		}
		var k Kind
		switch r[col].(type) {
		case time.Time:
			k = KindTimestamp
		case decimal.Decimal:
			k = KindDecimal
		default:
			return KindText
		}
		if seen && k != kind {
			return KindText
		}
		kind, seen = k, true
	}
	return kind
}

// Rows flattens ds into column-ordered value slices. conv maps a non-null
// cell to the driver representation for its column kind; nulls stay nil.
// Text columns always receive the formatted string.
func Rows(ds records.Dataset, kinds []Kind, conv func(Kind, any) any) [][]any {
	out := make([][]any, len(ds.Rows))
	for i, r := range ds.Rows {
		row := make([]any, len(ds.Columns))
		for j, c := range ds.Columns {
			if r.IsNull(c) {
				continue
			}
			if kinds[j] == KindText {
				row[j] = records.Format(r[c])
				continue
			}
			if conv != nil {
				row[j] = conv(kinds[j], r[c])
			} else {
				row[j] = r[c]
			}
		}
		out[i] = row
	}
	return out
}

// primaryKeys lists the column that is unique in each cleaned dataset.
var primaryKeys = map[string]string{
	cleaner.DatasetCustomers:    "customer_id",
	cleaner.DatasetGeoLocations: "country_code",
	cleaner.DatasetOrders:       "order_id",
	cleaner.DatasetOrderStatus:  "order_id",
}

// PrimaryKey returns the key column SQL sinks declare for ds, or "" when the
// dataset has no known key or the key column holds nulls.
func PrimaryKey(ds records.Dataset) string {
	key, ok := primaryKeys[ds.Name]
	if !ok || !ds.HasColumn(key) {
		return ""
	}
	for _, r := range ds.Rows {
		if r.IsNull(key) {
			return ""
		}
	}
	return key
}
