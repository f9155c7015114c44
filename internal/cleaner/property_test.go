package cleaner

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"salesclean/internal/keyset"
	"salesclean/internal/lookup"
	"salesclean/pkg/records"
)

var (
	customerIDs = []string{"AB123456", "CD345678", "EF567890", "AB12", ""}
	timestamps  = []string{"2021-01-01", "2021-06-01 08:00:00", "2022-02-02T10:00:00Z", "garbage", "", "2024-05-05"}
	prices      = []string{"10.5", "0", "3", "0.00", "", "x"}
	channels    = []string{"email", "", "direct", "unknown"}
	codes       = []string{"US", "BJ", "NA", "DE", "AM", "ZZ", ""}
	regions     = []string{"", "EMEA", "APAC", "LATAM"}
)

func pick(xs []string, n int) string { return xs[n%len(xs)] }

// Rows are derived from slices of small ints so keys repeat often.
func genSeeds() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 1000))
}

func customersFrom(seeds []int) records.Dataset {
	ds := records.Dataset{Name: DatasetCustomers, Columns: customerCols}
	for _, n := range seeds {
		ds.Rows = append(ds.Rows, records.Record{
			"customer_id":             pick(customerIDs, n),
			"created_on":              pick(timestamps, n/5),
			"marketing_channel":       pick(channels, n/3),
			"account_creation_method": pick(channels, n/7),
			"country_code":            pick(codes, n),
		})
	}
	return ds
}

func geoFrom(seeds []int) records.Dataset {
	ds := records.Dataset{Name: DatasetGeoLocations, Columns: geoCols}
	for _, n := range seeds {
		ds.Rows = append(ds.Rows, records.Record{
			"country_code": pick(codes, n),
			"region":       pick(regions, n/7),
		})
	}
	return ds
}

func ordersFrom(seeds []int) records.Dataset {
	ds := records.Dataset{Name: DatasetOrders, Columns: orderCols}
	for _, n := range seeds {
		ds.Rows = append(ds.Rows, order(
			fmt.Sprintf("O%d", n%13),
			pick(customerIDs, n/2),
			pick(timestamps, n/3),
			pick(prices, n/5),
			pick(prices, n/7),
		))
	}
	return ds
}

func statusFrom(seeds []int) records.Dataset {
	ds := records.Dataset{Name: DatasetOrderStatus, Columns: orderStatusCols}
	for _, n := range seeds {
		ds.Rows = append(ds.Rows, records.Record{
			"order_id":    fmt.Sprintf("O%d", n%17),
			"purchase_ts": pick(timestamps, n),
			"ship_ts":     pick(timestamps, n/2),
			"delivery_ts": pick(timestamps, n/3),
			"refund_ts":   pick(timestamps, n/5),
		})
	}
	return ds
}

func uniqueKeys(ds records.Dataset, key string) bool {
	seen := map[any]bool{}
	for _, r := range ds.Rows {
		if seen[r[key]] {
			return false
		}
		seen[r[key]] = true
	}
	return true
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestCustomersProperties(t *testing.T) {
	properties := newProperties()

	properties.Property("keys unique and well-formed", prop.ForAll(
		func(seeds []int) bool {
			out, _, err := Customers{}.Clean(customersFrom(seeds))
			if err != nil || !uniqueKeys(out, "customer_id") {
				return false
			}
			for _, r := range out.Rows {
				id, _ := r.String("customer_id")
				if len(id) != CustomerIDWidth || r.IsNull("marketing_channel") || r.IsNull("account_creation_method") {
					return false
				}
			}
			return true
		},
		genSeeds(),
	))

	properties.Property("idempotent", prop.ForAll(
		func(seeds []int) bool {
			once, _, _ := Customers{}.Clean(customersFrom(seeds))
			twice, rep, _ := Customers{}.Clean(once)
			return sameRows(once.Rows, twice.Rows) && rep.Dropped() == 0
		},
		genSeeds(),
	))

	properties.TestingRun(t)
}

func TestGeoLocationsProperties(t *testing.T) {
	properties := newProperties()
	c := GeoLocations{Lookups: lookup.Default()}

	properties.Property("one row per code and known codes have a region", prop.ForAll(
		func(seeds []int) bool {
			out, _, err := c.Clean(geoFrom(seeds))
			if err != nil || !uniqueKeys(out, "country_code") {
				return false
			}
			for _, r := range out.Rows {
				code, _ := r.String("country_code")
				if (code == "BJ" || code == "NA" || code == "US") && r.IsNull("region") {
					return false
				}
			}
			return true
		},
		genSeeds(),
	))

	properties.Property("idempotent", prop.ForAll(
		func(seeds []int) bool {
			once, _, _ := c.Clean(geoFrom(seeds))
			twice, _, _ := c.Clean(once)
			return slices.Equal(once.Columns, twice.Columns) && sameRows(once.Rows, twice.Rows)
		},
		genSeeds(),
	))

	properties.TestingRun(t)
}

func TestOrdersProperties(t *testing.T) {
	properties := newProperties()
	c := Orders{Lookups: lookup.Default()}

	properties.Property("invariants hold", prop.ForAll(
		func(seeds []int) bool {
			out, _, err := c.Clean(ordersFrom(seeds))
			if err != nil || !uniqueKeys(out, "order_id") {
				return false
			}
			for _, r := range out.Rows {
				id, _ := r.String("customer_id")
				if len(id) != CustomerIDWidth {
					return false
				}
				if r.IsNull("purchase_ts") || r.IsNull("currency") || r.IsNull("usd_price") {
					return false
				}
				if isZeroCell(r["local_price"]) || isZeroCell(r["usd_price"]) {
					return false
				}
			}
			return true
		},
		genSeeds(),
	))

	properties.Property("idempotent", prop.ForAll(
		func(seeds []int) bool {
			once, _, _ := c.Clean(ordersFrom(seeds))
			twice, rep, _ := c.Clean(once)
			return sameRows(once.Rows, twice.Rows) && rep.Dropped() == 0
		},
		genSeeds(),
	))

	properties.TestingRun(t)
}

func TestOrderStatusProperties(t *testing.T) {
	properties := newProperties()
	orders := Orders{Lookups: lookup.Default()}

	properties.Property("referential integrity and idempotence", prop.ForAll(
		func(orderSeeds, statusSeeds []int) bool {
			cleanOrders, _, _ := orders.Clean(ordersFrom(orderSeeds))
			parent := keyset.FromDataset(cleanOrders, "order_id")

			once, _, err := OrderStatus{}.Clean(statusFrom(statusSeeds), parent)
			if err != nil || !uniqueKeys(once, "order_id") {
				return false
			}
			for _, r := range once.Rows {
				id, _ := r.String("order_id")
				if !parent.Contains(id) || r.IsNull("purchase_ts") {
					return false
				}
			}
			twice, rep, _ := OrderStatus{}.Clean(once, parent)
			return sameRows(once.Rows, twice.Rows) && rep.Dropped() == 0
		},
		genSeeds(),
		genSeeds(),
	))

	properties.TestingRun(t)
}

func isZeroCell(v any) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.IsZero()
}

// sameRows treats nil and empty batches as equal.
func sameRows(a, b []records.Record) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
