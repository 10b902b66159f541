package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProductLine is one sold-product row on a container statement.
type ProductLine struct {
	SrNo      int             `json:"sr_no"`
	Product   string          `json:"product"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// ExpenseLine is one itemized expense on a container statement.
// Auto-generated expenses (the commission derived from gross sale) are
// maintained by Recompute and are not editable or deletable by hand.
type ExpenseLine struct {
	ID              int             `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	IsAutoGenerated bool            `json:"is_auto_generated"`
}

// Settlement is the net result of a container statement.
// Invariant: NetSale = GrossSale − TotalExpenses.
type Settlement struct {
	GrossSale     decimal.Decimal `json:"gross_sale"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetSale       decimal.Decimal `json:"net_sale"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// ContainerStatement aggregates a shipping container's product sales minus
// itemized expenses into a settlement figure.
type ContainerStatement struct {
	ID            int             `json:"id"`
	ContainerNo   string          `json:"container_no"`
	StatementDate time.Time       `json:"statement_date"`
	CommissionPct decimal.Decimal `json:"commission_percentage"`
	Products      []ProductLine   `json:"products"`
	Expenses      []ExpenseLine   `json:"expenses"`
	Settlement
	Audit
}

// AggregateProductLines merges lines sharing an identical (product, unitPrice)
// pair, summing quantity and amount. Grouped lines are renumbered 1-based in
// ascending unit-price order — a deliberate business convention on printed
// statements.
func AggregateProductLines(lines []ProductLine) []ProductLine {
	type key struct {
		product string
		price   string
	}
	merged := make(map[key]*ProductLine)
	var order []key
	for _, l := range lines {
		k := key{product: l.Product, price: l.UnitPrice.String()}
		g, ok := merged[k]
		if !ok {
			g = &ProductLine{Product: l.Product, UnitPrice: l.UnitPrice}
			merged[k] = g
			order = append(order, k)
		}
		g.Quantity = g.Quantity.Add(l.Quantity)
		g.Amount = g.Amount.Add(l.Quantity.Mul(l.UnitPrice))
	}

	grouped := make([]ProductLine, 0, len(order))
	for _, k := range order {
		grouped = append(grouped, *merged[k])
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].UnitPrice.LessThan(grouped[j].UnitPrice)
	})
	for i := range grouped {
		grouped[i].SrNo = i + 1
	}
	return grouped
}

// ComputeSettlement derives the settlement figures from grouped product lines
// and the expense list.
func ComputeSettlement(products []ProductLine, expenses []ExpenseLine) Settlement {
	var s Settlement
	for _, p := range products {
		s.GrossSale = s.GrossSale.Add(p.Amount)
		s.TotalQuantity = s.TotalQuantity.Add(p.Quantity)
	}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.NetSale = s.GrossSale.Sub(s.TotalExpenses)
	return s
}

// Recompute regroups product lines, refreshes the auto-generated commission
// expense from the current gross sale, and re-derives the settlement. Called
// after every line mutation so the NetSale invariant always holds.
func (st *ContainerStatement) Recompute() {
	st.Products = AggregateProductLines(st.Products)

	manual := st.Expenses[:0]
	for _, e := range st.Expenses {
		if !e.IsAutoGenerated {
			manual = append(manual, e)
		}
	}
	st.Expenses = manual

	if st.CommissionPct.IsPositive() {
		gross := ComputeSettlement(st.Products, nil).GrossSale
		st.Expenses = append(st.Expenses, ExpenseLine{
			Description:     fmt.Sprintf("Commission (%s%%)", st.CommissionPct.String()),
			Amount:          gross.Mul(st.CommissionPct).Div(decimal.NewFromInt(100)),
			IsAutoGenerated: true,
		})
	}

	st.Settlement = ComputeSettlement(st.Products, st.Expenses)
}

// AddExpense appends a manually entered expense and recomputes the settlement.
func (st *ContainerStatement) AddExpense(description string, amount decimal.Decimal) error {
	if description == "" {
		return NewValidationError("description", "must not be empty")
	}
	if !amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	st.Expenses = append(st.Expenses, ExpenseLine{Description: description, Amount: amount})
	st.Recompute()
	return nil
}

// RemoveExpense deletes a manually entered expense by index. Auto-generated
// expenses are display-only and cannot be removed through this path.
func (st *ContainerStatement) RemoveExpense(index int) error {
	if index < 0 || index >= len(st.Expenses) {
		return NewValidationError("expense", "index out of range")
	}
	if st.Expenses[index].IsAutoGenerated {
		return NewValidationError("expense", "auto-generated expenses cannot be removed")
	}
	st.Expenses = append(st.Expenses[:index], st.Expenses[index+1:]...)
	st.Recompute()
	return nil
}
