package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashDirection string

const (
	CashIn  CashDirection = "in"
	CashOut CashDirection = "out"
)

// CashEntry is one line in the daily cash book.
type CashEntry struct {
	ID           int             `json:"id"`
	EntryDate    time.Time       `json:"entry_date"`
	Direction    CashDirection   `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty,omitempty"`
	Method       PaymentMethod   `json:"method"`
	CreatedBy    int             `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DayBook is the cash position for a single day.
// Invariant: ClosingBalance = OpeningBalance + TotalIn − TotalOut.
type DayBook struct {
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIn        decimal.Decimal `json:"total_in"`
	TotalOut       decimal.Decimal `json:"total_out"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Entries        []CashEntry     `json:"entries"`
}

// BuildDayBook summarizes one day's entries against the opening balance
// carried forward from earlier days. Derived data only — rebuildable from the
// entry list at any time.
func BuildDayBook(entries []CashEntry, opening decimal.Decimal, date time.Time) DayBook {
	db := DayBook{Date: date, OpeningBalance: opening, Entries: entries}
	for _, e := range entries {
		switch e.Direction {
		case CashIn:
			db.TotalIn = db.TotalIn.Add(e.Amount)
		case CashOut:
			db.TotalOut = db.TotalOut.Add(e.Amount)
		}
	}
	db.ClosingBalance = opening.Add(db.TotalIn).Sub(db.TotalOut)
	return db
}
