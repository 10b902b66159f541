package core_test

import (
	"testing"
	"time"

	"tradebooks/internal/core"
)

func TestBuildDayBook(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []core.CashEntry{
		{Direction: core.CashIn, Amount: d("5000"), Description: "invoice receipt"},
		{Direction: core.CashOut, Amount: d("1200"), Description: "fuel"},
		{Direction: core.CashIn, Amount: d("300"), Description: "misc"},
		{Direction: core.CashOut, Amount: d("800"), Description: "clearing agent"},
	}

	db := core.BuildDayBook(entries, d("10000"), date)
	if !db.TotalIn.Equal(d("5300")) {
		t.Errorf("total in = %s, want 5300", db.TotalIn)
	}
	if !db.TotalOut.Equal(d("2000")) {
		t.Errorf("total out = %s, want 2000", db.TotalOut)
	}
	if !db.ClosingBalance.Equal(d("13300")) {
		t.Errorf("closing = %s, want 13300", db.ClosingBalance)
	}
	// closing = opening + in − out must always hold
	if !db.ClosingBalance.Equal(db.OpeningBalance.Add(db.TotalIn).Sub(db.TotalOut)) {
		t.Error("day book balance invariant violated")
	}
}

func TestBuildDayBook_Empty(t *testing.T) {
	db := core.BuildDayBook(nil, d("250"), time.Now())
	if !db.ClosingBalance.Equal(d("250")) {
		t.Errorf("closing = %s, want opening carried forward", db.ClosingBalance)
	}
}
