package builtin

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"salesclean/pkg/records"
)

/*
TestValidateApply_Table verifies end-to-end behavior of Validate.Apply:
  - Length rejects short, long and null keys,
  - NonZero rejects a row when either price is zero,
  - rules compose by conjunction,
  - rejected rows invoke the Reject callback with Line, Reason and Stage,
  - survivors keep their original order and map identity.
*/
func TestValidateApply_Table(t *testing.T) {
	var rejects []RejectedRow
	v := Validate{
		Rules: []Rule{
			Length{Field: "customer_id", Width: 8},
			NonZero{Fields: []string{"local_price", "usd_price"}},
		},
		Reject: func(r RejectedRow) { rejects = append(rejects, r) },
	}

	in := []records.Record{
		// 0: valid
		{"customer_id": "AB123456", "local_price": "10.5", "usd_price": "11"},
		// 1: reject: short key
		{"customer_id": "AB12", "local_price": "1", "usd_price": "1"},
		// 2: reject: local price zero
		{"customer_id": "AB123456", "local_price": "0", "usd_price": "1"},
		// 3: reject: usd price zero (decimal form)
		{"customer_id": "AB123456", "local_price": "1", "usd_price": "0.00"},
		// 4: reject: null key
		{"customer_id": nil, "local_price": "1", "usd_price": "1"},
		// 5: valid: null and non-numeric prices are not zero
		{"customer_id": "ZZ999999", "local_price": nil, "usd_price": "n/a"},
	}

	out := v.Apply(in)

	if len(out) != 2 {
		t.Fatalf("survivors=%d; want 2", len(out))
	}
	if reflect.ValueOf(out[0]).Pointer() != reflect.ValueOf(in[0]).Pointer() ||
		reflect.ValueOf(out[1]).Pointer() != reflect.ValueOf(in[5]).Pointer() {
		t.Fatalf("order/identity mismatch: got=%#v", out)
	}

	if len(rejects) != 4 {
		t.Fatalf("rejects=%d; want 4", len(rejects))
	}
	wantLines := []int{1, 2, 3, 4}
	for i, rj := range rejects {
		if rj.Line != wantLines[i] || rj.Stage != "validate" || rj.Reason == "" {
			t.Fatalf("reject[%d] = %#v", i, rj)
		}
	}
	if !strings.Contains(rejects[1].Reason, "local_price") || !strings.Contains(rejects[2].Reason, "usd_price") {
		t.Fatalf("zero reasons = %q / %q", rejects[1].Reason, rejects[2].Reason)
	}
}

/*
TestLength_CountsCharacters verifies that width is measured in characters,
not bytes.
*/
func TestLength_CountsCharacters(t *testing.T) {
	l := Length{Field: "k", Width: 3}
	if ok, _ := l.Check(records.Record{"k": "äöü"}); !ok {
		t.Fatalf("3-rune string rejected")
	}
	if ok, _ := l.Check(records.Record{"k": "ab"}); ok {
		t.Fatalf("2-rune string accepted")
	}
}

func TestIsZero(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"0", true},
		{"0.0", true},
		{" 0 ", true},
		{"-0", true},
		{"0.01", false},
		{"abc", false},
		{decimal.Zero, true},
		{decimal.NewFromFloat(2.5), false},
		{0, true},
		{0.0, true},
		{int64(3), false},
	}
	for _, c := range cases {
		if got := isZero(c.in); got != c.want {
			t.Fatalf("isZero(%#v) = %v; want %v", c.in, got, c.want)
		}
	}
}

func TestRequire(t *testing.T) {
	in := []records.Record{
		{"purchase_ts": "2023-01-01", "currency": "USD", "usd_price": "1"},
		{"purchase_ts": "", "currency": "USD", "usd_price": "1"},
		{"purchase_ts": "2023-01-01", "currency": nil, "usd_price": "1"},
		{"purchase_ts": "2023-01-01", "usd_price": "1"},
		{"purchase_ts": "2023-01-02", "currency": "EUR", "usd_price": "2"},
	}
	out := Require{Fields: []string{"purchase_ts", "currency", "usd_price"}}.Apply(in)
	if len(out) != 2 || out[0]["purchase_ts"] != "2023-01-01" || out[1]["currency"] != "EUR" {
		t.Fatalf("Require => %#v", out)
	}
}
