package core_test

import (
	"testing"
	"time"

	"tradebooks/internal/core"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name             string
		final, received  string
		dueDate          time.Time
		want             core.InvoiceStatus
	}{
		{"untouched invoice", "1000", "0", future, core.StatusUnpaid},
		{"partial payment", "1000", "400", future, core.StatusPartiallyPaid},
		{"fully paid", "1000", "1000", future, core.StatusPaid},
		{"paid wins over overdue", "1000", "1000", past, core.StatusPaid},
		{"overdue with no payment", "1000", "0", past, core.StatusOverdue},
		{"overdue wins over partial", "1000", "400", past, core.StatusOverdue},
		{"zero final amount never paid", "0", "0", future, core.StatusUnpaid},
		{"no due date never overdue", "1000", "0", time.Time{}, core.StatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.DeriveStatus(d(tt.final), d(tt.received), tt.dueDate, now)
			if got != tt.want {
				t.Errorf("DeriveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

// Overdue is not sticky: the same invoice evaluated before its due date
// reports its base state again.
func TestDeriveStatus_NotSticky(t *testing.T) {
	due := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	after := due.AddDate(0, 0, 5)
	before := due.AddDate(0, 0, -5)

	if got := core.DeriveStatus(d("500"), d("0"), due, after); got != core.StatusOverdue {
		t.Fatalf("after due date: got %s, want overdue", got)
	}
	if got := core.DeriveStatus(d("500"), d("0"), due, before); got != core.StatusUnpaid {
		t.Fatalf("before due date: got %s, want unpaid", got)
	}
}
