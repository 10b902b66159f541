package core_test

import (
	"context"
	"testing"
	"time"

	"tradebooks/internal/core"
)

func TestContainerStatementService_SaveGroupsAndSettles(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)
	containers := core.NewContainerStatementService(pool)

	st, err := containers.Save(ctx, core.ContainerStatementInput{
		ContainerNo:   "TCLU7654321",
		StatementDate: time.Now(),
		CommissionPct: d("2"),
		Products: []core.ProductLine{
			{Product: "Dates", Quantity: d("10"), UnitPrice: d("5")},
			{Product: "Dates", Quantity: d("5"), UnitPrice: d("5")},
			{Product: "Dates", Quantity: d("4"), UnitPrice: d("3")},
		},
		Expenses: []core.ExpenseLine{
			{Description: "Port handling", Amount: d("10")},
		},
	}, adminID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Same product at the same price merges; lines are renumbered by price
	if len(st.Products) != 2 {
		t.Fatalf("Expected 2 grouped lines, got %d", len(st.Products))
	}
	if st.Products[0].SrNo != 1 || !st.Products[0].UnitPrice.Equal(d("3")) {
		t.Errorf("Expected line 1 at price 3, got sr_no=%d price=%s",
			st.Products[0].SrNo, st.Products[0].UnitPrice)
	}
	if !st.Products[1].Quantity.Equal(d("15")) || !st.Products[1].Amount.Equal(d("75")) {
		t.Errorf("Expected merged line qty 15 amount 75, got qty=%s amount=%s",
			st.Products[1].Quantity, st.Products[1].Amount)
	}

	// gross 87, commission 2% = 1.74, expenses 11.74, net 75.26
	if !st.GrossSale.Equal(d("87")) {
		t.Errorf("Expected gross 87, got %s", st.GrossSale)
	}
	if !st.TotalExpenses.Equal(d("11.74")) {
		t.Errorf("Expected expenses 11.74, got %s", st.TotalExpenses)
	}
	if !st.NetSale.Equal(d("75.26")) {
		t.Errorf("Expected net 75.26, got %s", st.NetSale)
	}

	var autoCount int
	for _, e := range st.Expenses {
		if e.IsAutoGenerated {
			autoCount++
		}
	}
	if autoCount != 1 {
		t.Errorf("Expected exactly one auto-generated commission line, got %d", autoCount)
	}
}

func TestContainerStatementService_ExpenseMutations(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)
	containers := core.NewContainerStatementService(pool)

	st, err := containers.Save(ctx, core.ContainerStatementInput{
		ContainerNo:   "MSCU1112223",
		StatementDate: time.Now(),
		Products: []core.ProductLine{
			{Product: "Mangoes", Quantity: d("100"), UnitPrice: d("2")},
		},
	}, adminID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !st.NetSale.Equal(d("200")) {
		t.Fatalf("Expected net 200, got %s", st.NetSale)
	}

	st, err = containers.AddExpense(ctx, "MSCU1112223", "Labour", d("30"), adminID)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if !st.NetSale.Equal(d("170")) {
		t.Errorf("Expected net 170 after expense, got %s", st.NetSale)
	}

	st, err = containers.RemoveExpense(ctx, "MSCU1112223", st.Expenses[0].ID, adminID)
	if err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	if !st.NetSale.Equal(d("200")) {
		t.Errorf("Expected net back to 200, got %s", st.NetSale)
	}
}

func TestCashBookService_DayBookCarriesOpeningBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)
	cashbook := core.NewCashBookService(pool)

	yesterday := time.Now().AddDate(0, 0, -1)
	today := time.Now()

	mustAppend := func(date time.Time, dir core.CashDirection, amount, desc string) {
		t.Helper()
		if _, err := cashbook.Append(ctx, core.CashEntryInput{
			EntryDate:   date,
			Direction:   dir,
			Amount:      d(amount),
			Description: desc,
			Method:      core.MethodCash,
		}, adminID); err != nil {
			t.Fatalf("Append %s failed: %v", desc, err)
		}
	}

	mustAppend(yesterday, core.CashIn, "1000", "opening float")
	mustAppend(yesterday, core.CashOut, "300", "fuel")
	mustAppend(today, core.CashIn, "500", "customer receipt")
	mustAppend(today, core.CashOut, "200", "wages")

	book, err := cashbook.DayBook(ctx, today)
	if err != nil {
		t.Fatalf("DayBook failed: %v", err)
	}

	if !book.OpeningBalance.Equal(d("700")) {
		t.Errorf("Expected opening 700, got %s", book.OpeningBalance)
	}
	if !book.TotalIn.Equal(d("500")) || !book.TotalOut.Equal(d("200")) {
		t.Errorf("Expected in 500 out 200, got in=%s out=%s", book.TotalIn, book.TotalOut)
	}
	if !book.ClosingBalance.Equal(d("1000")) {
		t.Errorf("Expected closing 1000, got %s", book.ClosingBalance)
	}
	if len(book.Entries) != 2 {
		t.Errorf("Expected 2 entries for today, got %d", len(book.Entries))
	}
}
