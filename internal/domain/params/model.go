package params

import "github.com/shopspring/decimal"

// GlobalParams is the shop-wide markup/cost configuration, one row per
// organization. All percentage fields are 0–100.
type GlobalParams struct {
	OrgID int64

	DefaultMarginPercent    decimal.Decimal
	DefaultSurchargePercent decimal.Decimal
	// Advisory ceiling for quote discounts; the pipeline does not enforce it.
	MaxDiscountPercent decimal.Decimal

	TaxPercent     decimal.Decimal
	CardFeePercent decimal.Decimal

	// Monthly fixed costs, pro-rated per working hour.
	EnergyMonthly     decimal.Decimal
	InternetMonthly   decimal.Decimal
	OtherFixedMonthly decimal.Decimal

	// Currency per one percent of ink coverage.
	InkCostPerPercent decimal.Decimal

	// Monetary granularity of the final price (1.00 = whole unit, 0.05 = 5 cents).
	RoundTo decimal.Decimal

	// Kept for documentation; the pipeline always layers taxes and fees in
	// its fixed order.
	IncludeTaxesInBase bool
}

// LaborRateTable derives the blended labor+overhead rate from a desired
// monthly income and the working calendar, one row per organization.
type LaborRateTable struct {
	OrgID int64

	DesiredMonthlyIncome decimal.Decimal
	WorkingDaysPerMonth  int64
	HoursPerDay          decimal.Decimal
}

var (
	one   = decimal.NewFromInt(1)
	sixty = decimal.NewFromInt(60)
)

// DefaultGlobalParams returns the documented defaults materialized on first
// access: 30% margin, everything else zero, round to whole currency units.
func DefaultGlobalParams(orgID int64) GlobalParams {
	return GlobalParams{
		OrgID:                orgID,
		DefaultMarginPercent: decimal.RequireFromString("30.00"),
		MaxDiscountPercent:   decimal.RequireFromString("15.00"),
		RoundTo:              decimal.RequireFromString("1.00"),
		IncludeTaxesInBase:   true,
	}
}

// DefaultLaborRateTable returns the documented default calendar:
// 3000.00 desired income over 22 days of 8 hours.
func DefaultLaborRateTable(orgID int64) LaborRateTable {
	return LaborRateTable{
		OrgID:                orgID,
		DesiredMonthlyIncome: decimal.RequireFromString("3000.00"),
		WorkingDaysPerMonth:  22,
		HoursPerDay:          decimal.RequireFromString("8.00"),
	}
}

// MonthlyFixedCosts sums the pro-ratable fixed costs.
func (p GlobalParams) MonthlyFixedCosts() decimal.Decimal {
	return p.EnergyMonthly.Add(p.InternetMonthly).Add(p.OtherFixedMonthly)
}

// MonthlyHours is working days × hours per day, 4-decimal quantized.
func (t LaborRateTable) MonthlyHours() decimal.Decimal {
	return decimal.NewFromInt(t.WorkingDaysPerMonth).Mul(t.HoursPerDay).Round(4)
}

// divisorHours guards the degenerate zero-hours table: divide by 1 instead of
// erroring. Callers surface the condition as an advisory on the breakdown.
func (t LaborRateTable) divisorHours() decimal.Decimal {
	h := t.MonthlyHours()
	if h.Sign() <= 0 {
		return one
	}
	return h
}

// LaborRatePerHour is desired income spread over the monthly hours.
func (t LaborRateTable) LaborRatePerHour() decimal.Decimal {
	return t.DesiredMonthlyIncome.Div(t.divisorHours()).Round(4)
}

// FixedRatePerHour pro-rates the organization's fixed costs per hour.
func (t LaborRateTable) FixedRatePerHour(p GlobalParams) decimal.Decimal {
	return p.MonthlyFixedCosts().Div(t.divisorHours()).Round(4)
}

// BlendedRatePerHour is labor plus pro-rated overhead.
func (t LaborRateTable) BlendedRatePerHour(p GlobalParams) decimal.Decimal {
	return t.LaborRatePerHour().Add(t.FixedRatePerHour(p)).Round(4)
}

// BlendedRatePerMinute is the per-minute figure the pipeline multiplies by
// production time.
func (t LaborRateTable) BlendedRatePerMinute(p GlobalParams) decimal.Decimal {
	return t.BlendedRatePerHour(p).Div(sixty).Round(4)
}
