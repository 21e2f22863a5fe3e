package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unit is a symbolic measurement tag. Conversion factors are supplied per
// material; nothing is derived from the tag itself.
type Unit string

const (
	UnitPiece       Unit = "UN"
	UnitSheet       Unit = "SHEET"
	UnitReam        Unit = "REAM"
	UnitMilliliter  Unit = "ML"
	UnitLiter       Unit = "L"
	UnitGram        Unit = "G"
	UnitKilogram    Unit = "KG"
	UnitMeter       Unit = "M"
	UnitSquareMeter Unit = "M2"
	UnitBox         Unit = "BOX"
)

// DefaultSheetsPerReam is the conventional ream size; overridable via config.
const DefaultSheetsPerReam = 500

var hundred = decimal.NewFromInt(100)

// CostPerBaseUnit converts a purchase (unit, quantity, cost) into the cost of
// one base unit. The conversion factor only applies when the purchase unit
// differs from the base unit. A non-positive denominator yields zero instead
// of dividing; callers treat that as a data-quality advisory.
func CostPerBaseUnit(purchase, base Unit, purchaseQty, purchaseCost, factor decimal.Decimal) decimal.Decimal {
	baseQty := purchaseQty
	if purchase != base {
		baseQty = purchaseQty.Mul(factor)
	}
	if baseQty.Sign() <= 0 {
		return decimal.Zero
	}
	return purchaseCost.Div(baseQty).Round(4)
}

// ReamToSheets returns the sheet count of a ream purchase.
func ReamToSheets(reams decimal.Decimal, sheetsPerReam int64) decimal.Decimal {
	return reams.Mul(decimal.NewFromInt(sheetsPerReam))
}

// RollToArea returns the printable area in square meters of one or more rolls.
// Roll width is entered in centimeters, length in meters.
func RollToArea(widthCM, lengthM, rolls decimal.Decimal) decimal.Decimal {
	widthM := widthCM.Div(hundred)
	return widthM.Mul(lengthM).Mul(rolls).Round(4)
}

// RollToLength returns the total length in meters of one or more rolls.
func RollToLength(lengthM, rolls decimal.Decimal) decimal.Decimal {
	return lengthM.Mul(rolls)
}

// SheetsForPages computes how many sheets an imposed job consumes.
// itemsPerSheet is the imposition count; duplex doubles sheet capacity.
func SheetsForPages(pages, itemsPerSheet int64, duplex bool) (int64, error) {
	capacity := itemsPerSheet
	if duplex {
		capacity *= 2
	}
	if capacity <= 0 {
		return 0, fmt.Errorf("sheet capacity must be positive, got %d", capacity)
	}
	if pages <= 0 {
		return 0, nil
	}
	return (pages + capacity - 1) / capacity, nil
}
