package materials

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgoulart/precifica/internal/domain/units"
)

// Material is a stock-keeping raw material. It is bought in one unit
// (PurchaseUnit) and consumed by product components in another (BaseUnit);
// ConversionFactor bridges the two.
type Material struct {
	ID    int64
	OrgID int64
	Name  string

	PurchaseUnit units.Unit
	PurchaseQty  decimal.Decimal
	PurchaseCost decimal.Decimal

	BaseUnit         units.Unit
	ConversionFactor decimal.Decimal

	// Average loss (cuts, test prints) in percent, 0–100. Prefills component
	// wastage at data entry; the cost sum reads the component's own field.
	WastagePercent decimal.Decimal

	Notes     string
	Active    bool
	CreatedAt time.Time
}

// CostPerBaseUnit derives the current cost of one base unit. Never errors;
// a broken purchase record yields zero (surfaced upstream as an advisory).
func (m Material) CostPerBaseUnit() decimal.Decimal {
	return units.CostPerBaseUnit(m.PurchaseUnit, m.BaseUnit, m.PurchaseQty, m.PurchaseCost, m.ConversionFactor)
}

// PurchaseBroken reports whether the purchase record cannot produce a unit
// cost (zero quantity or non-positive conversion denominator).
func (m Material) PurchaseBroken() bool {
	baseQty := m.PurchaseQty
	if m.PurchaseUnit != m.BaseUnit {
		baseQty = m.PurchaseQty.Mul(m.ConversionFactor)
	}
	return baseQty.Sign() <= 0
}
