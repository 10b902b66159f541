package core_test

import (
	"testing"

	"tradebooks/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeSalesAmount(t *testing.T) {
	tests := []struct {
		name                          string
		quantity, rate, vat, discount string
		subtotal, vatAmt, final       string
	}{
		{"vat and discount", "10", "100", "5", "20", "1000", "50", "1030"},
		{"no vat no discount", "3", "250", "0", "0", "750", "0", "750"},
		{"blank inputs treated as zero", "0", "0", "0", "0", "0", "0", "0"},
		{"negative discount normalized", "2", "50", "0", "-10", "100", "0", "100"},
		{"negative quantity normalized", "-4", "50", "0", "0", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ComputeSalesAmount(d(tt.quantity), d(tt.rate), d(tt.vat), d(tt.discount))
			if !got.Subtotal.Equal(d(tt.subtotal)) {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.subtotal)
			}
			if !got.VATAmount.Equal(d(tt.vatAmt)) {
				t.Errorf("vat = %s, want %s", got.VATAmount, tt.vatAmt)
			}
			if !got.FinalAmount.Equal(d(tt.final)) {
				t.Errorf("final = %s, want %s", got.FinalAmount, tt.final)
			}
		})
	}
}

func TestConvertCurrency(t *testing.T) {
	rate := d("76.5")

	aed := core.ConvertCurrency(d("76500"), rate, core.PKRToAED)
	if !aed.Equal(d("1000")) {
		t.Errorf("PKR→AED = %s, want 1000", aed)
	}

	pkr := core.ConvertCurrency(d("1000"), rate, core.AEDToPKR)
	if !pkr.Equal(d("76500")) {
		t.Errorf("AED→PKR = %s, want 76500", pkr)
	}

	if got := core.ConvertCurrency(d("500"), decimal.Zero, core.PKRToAED); !got.IsZero() {
		t.Errorf("zero rate = %s, want 0", got)
	}
	if got := core.ConvertCurrency(d("500"), d("-3"), core.AEDToPKR); !got.IsZero() {
		t.Errorf("negative rate = %s, want 0", got)
	}
}

// Converting PKR→AED→PKR with the same rate must return the original amount.
func TestConvertCurrency_RoundTrip(t *testing.T) {
	rates := []string{"76.5", "83.25", "1", "280.123"}
	amount := d("123456.78")
	for _, r := range rates {
		rate := d(r)
		aed := core.ConvertCurrency(amount, rate, core.PKRToAED)
		back := core.ConvertCurrency(aed, rate, core.AEDToPKR)
		if diff := back.Sub(amount).Abs(); diff.GreaterThan(d("0.0001")) {
			t.Errorf("rate %s: round trip %s != %s (diff %s)", r, back, amount, diff)
		}
	}
}

func TestComputePurchaseTotal(t *testing.T) {
	got := core.ComputePurchaseTotal(d("100"), d("50"), d("2000"), d("1500"), d("300"), d("200"), d("76.5"))
	if !got.SubtotalPKR.Equal(d("5000")) {
		t.Errorf("subtotal = %s, want 5000", got.SubtotalPKR)
	}
	if !got.TotalPKR.Equal(d("9000")) {
		t.Errorf("total PKR = %s, want 9000", got.TotalPKR)
	}
	want := d("9000").Div(d("76.5"))
	if !got.TotalAED.Equal(want) {
		t.Errorf("total AED = %s, want %s", got.TotalAED, want)
	}

	// transferRate <= 0 yields zero AED, never a division error
	got = core.ComputePurchaseTotal(d("10"), d("10"), d("0"), d("0"), d("0"), d("0"), decimal.Zero)
	if !got.TotalAED.IsZero() {
		t.Errorf("total AED with zero rate = %s, want 0", got.TotalAED)
	}
}
