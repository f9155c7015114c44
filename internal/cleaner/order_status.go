package cleaner

import (
	"time"

	"salesclean/internal/keyset"
	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// DefaultRefundHorizon is the latest refund timestamp treated as real.
var DefaultRefundHorizon = time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)

// OrderStatus cleans the order status dataset. It depends on the cleaned
// orders: the parent key set must be built from the Orders cleaner's output.
//
// referential filter → dedup (first wins) → drop null purchase_ts →
// timestamp coercion → drop unparseable purchase_ts → refund horizon.
type OrderStatus struct {
	// RefundHorizon clears refund_ts values after it. Zero means
	// DefaultRefundHorizon.
	RefundHorizon time.Time
}

func (OrderStatus) Name() string { return DatasetOrderStatus }

// Clean runs the cleaner. orders holds the order_id values of the cleaned
// orders dataset; a nil set filters out every row.
func (s OrderStatus) Clean(in records.Dataset, orders *keyset.Set) (records.Dataset, Report, error) {
	if err := requireColumns(in, "order_id", "purchase_ts", "ship_ts", "delivery_ts", "refund_ts"); err != nil {
		return records.Dataset{}, Report{}, err
	}
	horizon := s.RefundHorizon
	if horizon.IsZero() {
		horizon = DefaultRefundHorizon
	}

	var rep Report
	stages := transformer.Stages{
		{Name: "referential", T: builtin.MemberOf{Field: "order_id", Keys: orders}},
		{Name: "dedup", T: builtin.DeDup{Keys: []string{"order_id"}, Policy: builtin.KeepFirst}},
		{Name: "null_report", T: snapshotColumns(&rep, in.Columns)},
		{Name: "require", T: builtin.Require{Fields: []string{"purchase_ts"}}},
		{Name: "coerce", T: builtin.Coerce{Types: map[string]string{
			"purchase_ts": "timestamp",
			"ship_ts":     "timestamp",
			"delivery_ts": "timestamp",
			"refund_ts":   "timestamp",
		}}},
		{Name: "require_valid", T: builtin.Require{Fields: []string{"purchase_ts"}}},
		{Name: "refund_horizon", T: builtin.Horizon{Field: "refund_ts", Max: horizon}},
	}
	out := run(s.Name(), in, in.Columns, stages, &rep)
	return out, rep, nil
}
