package core_test

import (
	"testing"
	"time"

	"tradebooks/internal/core"

	"github.com/shopspring/decimal"
)

func invoiceFixture() []core.InvoiceSummary {
	lastPay := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	return []core.InvoiceSummary{
		{Kind: core.KindSales, ID: 1, CustomerName: "Al Noor Traders", ProductName: "Rice",
			FinalAmount: d("1000"), ReceivedAmount: d("1000"), OutstandingAmount: d("0"),
			Status: core.StatusPaid, DueDate: day(2024, 4, 1), LastPaymentDate: &lastPay},
		{Kind: core.KindSales, ID: 2, CustomerName: "Al Noor Traders", ProductName: "Sugar",
			FinalAmount: d("2000"), ReceivedAmount: d("500"), OutstandingAmount: d("1500"),
			Status: core.StatusPartiallyPaid, DueDate: day(2024, 7, 1)},
		{Kind: core.KindFreight, ID: 3, CustomerName: "Karachi Cargo", ProductName: "",
			FinalAmount: d("5000"), ReceivedAmount: d("0"), OutstandingAmount: d("5000"),
			Status: core.StatusOverdue, DueDate: day(2024, 3, 15)},
		{Kind: core.KindSales, ID: 4, CustomerName: "Gulf Star LLC", ProductName: "Rice",
			FinalAmount: d("800"), ReceivedAmount: d("0"), OutstandingAmount: d("800"),
			Status: core.StatusUnpaid, DueDate: day(2024, 8, 1)},
	}
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestAggregateOutstanding_ByCustomer(t *testing.T) {
	report, err := core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if report.Summary.GroupCount != 3 {
		t.Fatalf("group count = %d, want 3", report.Summary.GroupCount)
	}

	// Default sort is total_outstanding desc.
	if report.Rows[0].Name != "Karachi Cargo" {
		t.Fatalf("top row = %s, want Karachi Cargo", report.Rows[0].Name)
	}

	var alNoor *core.OutstandingRow
	for i := range report.Rows {
		if report.Rows[i].Name == "Al Noor Traders" {
			alNoor = &report.Rows[i]
		}
	}
	if alNoor == nil {
		t.Fatal("Al Noor Traders missing from report")
	}
	// Paid invoice contributes 0 to outstanding but still counts toward
	// totals and invoice count.
	if !alNoor.TotalOutstanding.Equal(d("1500")) {
		t.Errorf("Al Noor outstanding = %s, want 1500", alNoor.TotalOutstanding)
	}
	if !alNoor.TotalAmount.Equal(d("3000")) || alNoor.InvoiceCount != 2 {
		t.Errorf("Al Noor totalAmount=%s count=%d, want 3000/2", alNoor.TotalAmount, alNoor.InvoiceCount)
	}
	if alNoor.Status != core.StatusPartiallyPaid {
		t.Errorf("Al Noor group status = %s, want partially_paid", alNoor.Status)
	}
	if alNoor.LastPaymentDate == nil || !alNoor.LastPaymentDate.Equal(day(2024, 5, 10)) {
		t.Errorf("Al Noor last payment = %v, want 2024-05-10", alNoor.LastPaymentDate)
	}
	if !alNoor.OldestDueDate.Equal(day(2024, 4, 1)) {
		t.Errorf("Al Noor oldest due = %s, want 2024-04-01", alNoor.OldestDueDate)
	}
}

func TestAggregateOutstanding_SummaryIsPaginationInvariant(t *testing.T) {
	full, err := core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Limit: 100,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	paged, err := core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Page: 2, Limit: 1,
	})
	if err != nil {
		t.Fatalf("aggregate paged: %v", err)
	}

	if len(paged.Rows) != 1 {
		t.Fatalf("page slice = %d rows, want 1", len(paged.Rows))
	}
	if !paged.Summary.TotalOutstanding.Equal(full.Summary.TotalOutstanding) {
		t.Errorf("paged summary %s != full summary %s",
			paged.Summary.TotalOutstanding, full.Summary.TotalOutstanding)
	}

	// Summary equals the sum across all groups of the filtered set.
	sum := decimal.Zero
	for _, r := range full.Rows {
		sum = sum.Add(r.TotalOutstanding)
	}
	if !full.Summary.TotalOutstanding.Equal(sum) {
		t.Errorf("summary %s != Σ rows %s", full.Summary.TotalOutstanding, sum)
	}
	if paged.Pagination.TotalRows != 3 || paged.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want 3 rows over 3 pages", paged.Pagination)
	}
}

func TestAggregateOutstanding_Filters(t *testing.T) {
	// Substring search on the group key, exact-match semantics (case-sensitive).
	report, err := core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Search: "Noor",
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Name != "Al Noor Traders" {
		t.Fatalf("search rows = %+v, want only Al Noor Traders", report.Rows)
	}

	report, err = core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Search: "noor",
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(report.Rows) != 0 {
		t.Fatalf("lowercase search matched %d rows, want 0 (case-sensitive)", len(report.Rows))
	}

	min := d("1000")
	report, err = core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, MinAmount: &min,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	for _, r := range report.Rows {
		if r.TotalOutstanding.LessThan(min) {
			t.Errorf("row %s outstanding %s below min filter", r.Name, r.TotalOutstanding)
		}
	}

	// Member-status filter restricts which invoices enter the rollup.
	report, err = core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Status: core.StatusOverdue,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Name != "Karachi Cargo" {
		t.Fatalf("status filter rows = %+v, want only Karachi Cargo", report.Rows)
	}
}

func TestAggregateOutstanding_ByProduct(t *testing.T) {
	report, err := core.AggregateOutstanding(invoiceFixture(), core.OutstandingOptions{
		GroupBy: core.GroupByProduct, SortBy: "name", SortOrder: core.SortAsc,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// Freight invoice has no product name and groups under the empty key.
	names := make([]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		names = append(names, r.Name)
	}
	want := []string{"", "Rice", "Sugar"}
	if len(names) != len(want) {
		t.Fatalf("rows = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("rows = %v, want %v", names, want)
		}
	}
}

func TestAggregateOutstanding_BadOptions(t *testing.T) {
	if _, err := core.AggregateOutstanding(nil, core.OutstandingOptions{GroupBy: "invoice"}); err == nil {
		t.Error("bad groupBy accepted")
	}
	if _, err := core.AggregateOutstanding(nil, core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, SortBy: "color",
	}); err == nil {
		t.Error("bad sortBy accepted")
	}
}
