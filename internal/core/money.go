package core

import "github.com/shopspring/decimal"

// The calculators below are pure and re-runnable: editing any input re-derives
// every downstream amount, so stale derived values cannot survive an edit.
// Invalid numeric input (negative where disallowed, unset) is normalized to
// zero rather than rejected — required-field validation happens one layer up.

// SalesAmounts holds the derived monetary fields of a sales invoice.
type SalesAmounts struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// ComputeSalesAmount derives subtotal, VAT and final amount from entry inputs.
//
//	subtotal = quantity × rate
//	vat      = subtotal × vatPct/100
//	final    = subtotal + vat − discount
func ComputeSalesAmount(quantity, rate, vatPct, discount decimal.Decimal) SalesAmounts {
	quantity = zeroIfNegative(quantity)
	rate = zeroIfNegative(rate)
	vatPct = zeroIfNegative(vatPct)
	discount = zeroIfNegative(discount)

	subtotal := quantity.Mul(rate)
	vat := subtotal.Mul(vatPct).Div(decimal.NewFromInt(100))
	return SalesAmounts{
		Subtotal:    subtotal,
		VATAmount:   vat,
		FinalAmount: subtotal.Add(vat).Sub(discount),
	}
}

// ConversionDirection selects which currency amount is authoritative.
// The conversion rate is always expressed as PKR per AED.
type ConversionDirection string

const (
	PKRToAED ConversionDirection = "pkr_to_aed"
	AEDToPKR ConversionDirection = "aed_to_pkr"
)

// ConvertCurrency converts between PKR and AED using rate (PKR per AED).
// A non-positive rate yields zero — never a division error.
func ConvertCurrency(amount, rate decimal.Decimal, direction ConversionDirection) decimal.Decimal {
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	switch direction {
	case PKRToAED:
		return amount.Div(rate)
	case AEDToPKR:
		return amount.Mul(rate)
	}
	return decimal.Zero
}

// PurchaseTotals holds the derived landed-cost figures of a purchase.
type PurchaseTotals struct {
	SubtotalPKR decimal.Decimal `json:"subtotal_pkr"`
	TotalPKR    decimal.Decimal `json:"total_pkr"`
	TotalAED    decimal.Decimal `json:"total_aed"`
}

// ComputePurchaseTotal derives the PKR landed cost and its AED equivalent.
// transferRate is PKR per AED; zero or negative yields TotalAED = 0.
func ComputePurchaseTotal(quantity, rate, transport, freight, eForm, miscellaneous, transferRate decimal.Decimal) PurchaseTotals {
	quantity = zeroIfNegative(quantity)
	rate = zeroIfNegative(rate)
	transport = zeroIfNegative(transport)
	freight = zeroIfNegative(freight)
	eForm = zeroIfNegative(eForm)
	miscellaneous = zeroIfNegative(miscellaneous)

	subtotal := quantity.Mul(rate)
	total := subtotal.Add(transport).Add(freight).Add(eForm).Add(miscellaneous)
	return PurchaseTotals{
		SubtotalPKR: subtotal,
		TotalPKR:    total,
		TotalAED:    ConvertCurrency(total, transferRate, PKRToAED),
	}
}

func zeroIfNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
