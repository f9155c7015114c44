package cleaner

import (
	"salesclean/internal/lookup"
	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// Orders cleans the orders dataset:
// dedup (first wins) → customer_id shape → drop rows missing purchase_ts,
// currency or usd_price → drop zero prices → canonical product names →
// coercion → drop rows whose purchase_ts or usd_price failed to parse.
type Orders struct {
	Lookups lookup.Tables
}

func (Orders) Name() string { return DatasetOrders }

func (o Orders) Clean(in records.Dataset) (records.Dataset, Report, error) {
	if err := requireColumns(in, "order_id", "customer_id", "purchase_ts", "currency", "usd_price", "local_price", "product_name"); err != nil {
		return records.Dataset{}, Report{}, err
	}
	var rep Report
	stages := transformer.Stages{
		{Name: "dedup", T: builtin.DeDup{Keys: []string{"order_id"}, Policy: builtin.KeepFirst}},
		{Name: "validate_customer_id", T: builtin.Validate{
			Rules:  []builtin.Rule{builtin.Length{Field: "customer_id", Width: CustomerIDWidth}},
			Reject: rejectInto(&rep, "validate_customer_id"),
		}},
		{Name: "null_report", T: snapshotColumns(&rep, in.Columns)},
		{Name: "require", T: builtin.Require{Fields: []string{"purchase_ts", "currency", "usd_price"}}},
		{Name: "validate_prices", T: builtin.Validate{
			Rules:  []builtin.Rule{builtin.NonZero{Fields: []string{"local_price", "usd_price"}}},
			Reject: rejectInto(&rep, "validate_prices"),
		}},
		{Name: "product_name", T: builtin.Canonicalize{Field: "product_name", Table: o.Lookups.ProductNames}},
		{Name: "coerce", T: builtin.Coerce{Types: map[string]string{
			"purchase_ts": "timestamp",
			"usd_price":   "decimal",
			"local_price": "decimal",
		}}},
		{Name: "require_valid", T: builtin.Require{Fields: []string{"purchase_ts", "usd_price"}}},
	}
	out := run(o.Name(), in, in.Columns, stages, &rep)
	return out, rep, nil
}
