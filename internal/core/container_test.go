package core_test

import (
	"testing"

	"tradebooks/internal/core"
)

func TestAggregateProductLines(t *testing.T) {
	lines := []core.ProductLine{
		{Product: "Dates", Quantity: d("10"), UnitPrice: d("5")},
		{Product: "Dates", Quantity: d("5"), UnitPrice: d("5")},
		{Product: "Dates", Quantity: d("3"), UnitPrice: d("7")},
		{Product: "Almonds", Quantity: d("2"), UnitPrice: d("20")},
	}

	grouped := core.AggregateProductLines(lines)
	if len(grouped) != 3 {
		t.Fatalf("grouped into %d lines, want 3", len(grouped))
	}

	// SrNo is reassigned 1-based in ascending unit-price order.
	if grouped[0].SrNo != 1 || !grouped[0].UnitPrice.Equal(d("5")) {
		t.Errorf("line 1 = %+v, want price 5 first", grouped[0])
	}
	if !grouped[0].Quantity.Equal(d("15")) || !grouped[0].Amount.Equal(d("75")) {
		t.Errorf("merged line qty=%s amount=%s, want 15/75", grouped[0].Quantity, grouped[0].Amount)
	}
	if !grouped[1].UnitPrice.Equal(d("7")) || !grouped[2].UnitPrice.Equal(d("20")) {
		t.Errorf("price order = %s, %s, %s", grouped[0].UnitPrice, grouped[1].UnitPrice, grouped[2].UnitPrice)
	}
	if grouped[2].SrNo != 3 {
		t.Errorf("last SrNo = %d, want 3", grouped[2].SrNo)
	}
}

func TestComputeSettlement(t *testing.T) {
	grouped := core.AggregateProductLines([]core.ProductLine{
		{Product: "Dates", Quantity: d("10"), UnitPrice: d("5")},
		{Product: "Dates", Quantity: d("5"), UnitPrice: d("5")},
	})
	expenses := []core.ExpenseLine{{Description: "fee", Amount: d("10")}}

	s := core.ComputeSettlement(grouped, expenses)
	if !s.GrossSale.Equal(d("75")) {
		t.Errorf("gross = %s, want 75", s.GrossSale)
	}
	if !s.TotalExpenses.Equal(d("10")) {
		t.Errorf("expenses = %s, want 10", s.TotalExpenses)
	}
	if !s.NetSale.Equal(d("65")) {
		t.Errorf("net = %s, want 65", s.NetSale)
	}
	if !s.TotalQuantity.Equal(d("15")) {
		t.Errorf("quantity = %s, want 15", s.TotalQuantity)
	}
}

func TestContainerStatement_CommissionTracksGrossSale(t *testing.T) {
	st := &core.ContainerStatement{
		ContainerNo:   "MSKU-1001",
		CommissionPct: d("10"),
		Products: []core.ProductLine{
			{Product: "Dates", Quantity: d("100"), UnitPrice: d("4")},
		},
	}
	st.Recompute()

	if len(st.Expenses) != 1 || !st.Expenses[0].IsAutoGenerated {
		t.Fatalf("expenses = %+v, want one auto-generated commission", st.Expenses)
	}
	if !st.Expenses[0].Amount.Equal(d("40")) {
		t.Errorf("commission = %s, want 40 (10%% of 400)", st.Expenses[0].Amount)
	}
	if !st.NetSale.Equal(d("360")) {
		t.Errorf("net = %s, want 360", st.NetSale)
	}

	// Editing lines re-derives the commission, never duplicates it.
	st.Products = append(st.Products, core.ProductLine{Product: "Dates", Quantity: d("50"), UnitPrice: d("4")})
	st.Recompute()
	if len(st.Expenses) != 1 {
		t.Fatalf("expenses after recompute = %d, want 1", len(st.Expenses))
	}
	if !st.Expenses[0].Amount.Equal(d("60")) {
		t.Errorf("commission after edit = %s, want 60", st.Expenses[0].Amount)
	}
}

func TestContainerStatement_Expenses(t *testing.T) {
	st := &core.ContainerStatement{
		ContainerNo:   "MSKU-1002",
		CommissionPct: d("5"),
		Products: []core.ProductLine{
			{Product: "Sugar", Quantity: d("20"), UnitPrice: d("10")},
		},
	}
	st.Recompute()

	if err := st.AddExpense("port handling", d("25")); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	// gross 200, commission 10, manual 25
	if !st.NetSale.Equal(d("165")) {
		t.Errorf("net = %s, want 165", st.NetSale)
	}

	if err := st.AddExpense("", d("5")); err == nil {
		t.Error("empty description accepted")
	}
	if err := st.AddExpense("negative", d("-5")); err == nil {
		t.Error("negative amount accepted")
	}

	// The auto-generated commission cannot be removed by hand.
	autoIdx := -1
	for i, e := range st.Expenses {
		if e.IsAutoGenerated {
			autoIdx = i
		}
	}
	if autoIdx == -1 {
		t.Fatal("commission expense missing")
	}
	if err := st.RemoveExpense(autoIdx); err == nil {
		t.Error("auto-generated expense removal accepted")
	}

	manualIdx := -1
	for i, e := range st.Expenses {
		if !e.IsAutoGenerated {
			manualIdx = i
		}
	}
	if err := st.RemoveExpense(manualIdx); err != nil {
		t.Fatalf("remove manual expense: %v", err)
	}
	if !st.NetSale.Equal(d("190")) {
		t.Errorf("net after removal = %s, want 190", st.NetSale)
	}
}
