package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mgoulart/precifica/internal/domain/params"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ComponentInput is one material usage line entering the cost calculator.
// CostPerBaseUnit is already derived from the material's purchase record.
type ComponentInput struct {
	MaterialName    string
	CostPerBaseUnit decimal.Decimal
	Quantity        decimal.Decimal
	WastagePercent  decimal.Decimal
}

// Input is everything the pipeline needs, resolved by the caller from
// current catalog state. The pipeline itself never touches storage.
type Input struct {
	Components        []ComponentInput
	ProductionMinutes int64

	UsesInkCoverage    bool
	InkCoveragePercent decimal.Decimal

	// When invalid, Params.DefaultMarginPercent applies.
	MarginOverride decimal.NullDecimal

	Params params.GlobalParams
	Rates  params.LaborRateTable

	// Data-quality notes collected while assembling the input (for example a
	// material whose purchase record cannot produce a unit cost). Carried
	// onto the breakdown.
	Advisories []string
}

// Breakdown itemizes one pipeline run. Monetary fields are quantized to two
// decimals for presentation; the cascade itself runs at four.
type Breakdown struct {
	Materials decimal.Decimal `json:"materials"`
	Labor     decimal.Decimal `json:"labor"`
	Ink       decimal.Decimal `json:"ink"`
	CostTotal decimal.Decimal `json:"cost_total"`

	MarginPercent     decimal.Decimal `json:"margin_percent"`
	PriceBeforeTaxes  decimal.Decimal `json:"price_before_taxes"`
	Taxes             decimal.Decimal `json:"taxes"`
	CardFee           decimal.Decimal `json:"card_fee"`
	StandardSurcharge decimal.Decimal `json:"standard_surcharge"`
	FinalPrice        decimal.Decimal `json:"final_price"`

	Advisories []string `json:"advisories,omitempty"`
}

// MaterialsCost sums effective material cost over the components: the
// declared quantity inflated by the component's wastage percent, times the
// material's cost per base unit. Wastage inflates quantity, not cost, so it
// composes with unit-cost changes. Quantized to four decimals.
func MaterialsCost(components []ComponentInput) decimal.Decimal {
	total := decimal.Zero
	for _, c := range components {
		effectiveQty := c.Quantity.Mul(one.Add(c.WastagePercent.Div(hundred)))
		total = total.Add(c.CostPerBaseUnit.Mul(effectiveQty))
	}
	return total.Round(4)
}

// LaborCost is the blended per-minute rate times production time, four
// decimals.
func LaborCost(minutes int64, p params.GlobalParams, t params.LaborRateTable) decimal.Decimal {
	return t.BlendedRatePerMinute(p).Mul(decimal.NewFromInt(minutes)).Round(4)
}

// InkCost prices optional coverage-based ink usage.
func InkCost(uses bool, coveragePercent decimal.Decimal, p params.GlobalParams) decimal.Decimal {
	if !uses {
		return decimal.Zero
	}
	return coveragePercent.Div(hundred).Mul(p.InkCostPerPercent).Round(4)
}

// RoundToIncrement snaps a price to the configured monetary step, half-up.
// A zero or negative step falls back to plain two-decimal rounding.
func RoundToIncrement(value, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return value.Round(2)
	}
	mult := value.Div(step).Round(0)
	return mult.Mul(step).Round(2)
}

// Compute runs the derivation pipeline. Each percentage applies to the
// running total of the previous step, so tax, card fee and surcharge
// compound; the order is part of the contract and must not change.
// Degenerate inputs (no components, zero production time, zero coverage)
// contribute zero; Compute never errors.
func Compute(in Input) Breakdown {
	advisories := append([]string(nil), in.Advisories...)
	if in.Rates.MonthlyHours().Sign() <= 0 {
		advisories = append(advisories, "labor rate table has zero monthly hours; rates computed over 1 hour")
	}

	materials := MaterialsCost(in.Components)
	labor := LaborCost(in.ProductionMinutes, in.Params, in.Rates)
	ink := InkCost(in.UsesInkCoverage, in.InkCoveragePercent, in.Params)

	costTotal := materials.Add(labor).Add(ink).Round(4)

	margin := in.Params.DefaultMarginPercent
	if in.MarginOverride.Valid {
		margin = in.MarginOverride.Decimal
	}

	beforeTaxes := costTotal.Mul(one.Add(margin.Div(hundred))).Round(4)

	taxes := beforeTaxes.Mul(in.Params.TaxPercent.Div(hundred)).Round(4)
	withTaxes := beforeTaxes.Add(taxes).Round(4)

	cardFee := withTaxes.Mul(in.Params.CardFeePercent.Div(hundred)).Round(4)
	withFee := withTaxes.Add(cardFee).Round(4)

	surcharge := withFee.Mul(in.Params.DefaultSurchargePercent.Div(hundred)).Round(4)
	gross := withFee.Add(surcharge).Round(4)

	final := RoundToIncrement(gross, in.Params.RoundTo)

	return Breakdown{
		Materials:         materials.Round(2),
		Labor:             labor.Round(2),
		Ink:               ink.Round(2),
		CostTotal:         costTotal.Round(2),
		MarginPercent:     margin.Round(2),
		PriceBeforeTaxes:  beforeTaxes.Round(2),
		Taxes:             taxes.Round(2),
		CardFee:           cardFee.Round(2),
		StandardSurcharge: surcharge.Round(2),
		FinalPrice:        final,
		Advisories:        advisories,
	}
}

// AdviseBrokenPurchase formats the advisory attached when a material's
// purchase record cannot produce a unit cost.
func AdviseBrokenPurchase(materialName string) string {
	return fmt.Sprintf("material %q has no derivable unit cost; contributed zero", materialName)
}
