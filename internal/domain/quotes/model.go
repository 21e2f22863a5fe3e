package quotes

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusApproved, StatusRejected:
		return true
	}
	return false
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Quote is a customer-facing snapshot. Line prices are frozen at creation;
// recomputing a product's live price later never touches an existing quote.
type Quote struct {
	ID           int64
	OrgID        int64
	CustomerName string
	Number       string

	DiscountPercent  decimal.Decimal
	SurchargePercent decimal.Decimal

	Status    Status
	Notes     string
	Total     decimal.Decimal
	CreatedAt time.Time

	Lines []Line
}

// Line captures product, quantity and the unit price frozen from the
// pipeline at quote-creation time.
type Line struct {
	ID          int64
	QuoteID     int64
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Subtotal is quantity × frozen unit price, two decimals.
func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(2)
}

// Total applies the quote-level percentages over the summed subtotals:
// discount first, then surcharge, multiplicatively. Two decimals.
func Total(lines []Line, discountPercent, surchargePercent decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	discounted := sum.Mul(one.Sub(discountPercent.Div(hundred)))
	return discounted.Mul(one.Add(surchargePercent.Div(hundred))).Round(2)
}
