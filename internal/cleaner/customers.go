package cleaner

import (
	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// CustomerIDWidth is the fixed length of a well-formed customer identifier.
const CustomerIDWidth = 8

// UnknownValue replaces absent categorical values.
const UnknownValue = "unknown"

// Customers cleans the customers dataset:
// dedup (latest created_on wins) → customer_id shape → fill "unknown" →
// created_on coercion (failures become null, row kept).
type Customers struct{}

func (Customers) Name() string { return DatasetCustomers }

func (c Customers) Clean(in records.Dataset) (records.Dataset, Report, error) {
	if err := requireColumns(in, "customer_id", "created_on", "marketing_channel", "account_creation_method"); err != nil {
		return records.Dataset{}, Report{}, err
	}
	var rep Report
	stages := transformer.Stages{
		{Name: "dedup", T: builtin.DeDup{Keys: []string{"customer_id"}, Policy: builtin.KeepLast, OrderBy: "created_on"}},
		{Name: "validate_customer_id", T: builtin.Validate{
			Rules:  []builtin.Rule{builtin.Length{Field: "customer_id", Width: CustomerIDWidth}},
			Reject: rejectInto(&rep, "validate_customer_id"),
		}},
		{Name: "null_report", T: snapshotColumns(&rep, in.Columns)},
		{Name: "fill_unknown", T: builtin.FillConstant{
			Fields: []string{"marketing_channel", "account_creation_method"},
			Value:  UnknownValue,
		}},
		{Name: "coerce", T: builtin.Coerce{Types: map[string]string{"created_on": "timestamp"}}},
	}
	out := run(c.Name(), in, in.Columns, stages, &rep)
	return out, rep, nil
}
