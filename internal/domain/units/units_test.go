package units

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func equalDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestCostPerBaseUnit_ReamToSheet(t *testing.T) {
	// 1 ream of 500 sheets bought for 25.00 → 0.05 per sheet.
	got := CostPerBaseUnit(UnitReam, UnitSheet, dec(t, "1"), dec(t, "25.00"), dec(t, "500"))
	equalDecimal(t, "cost per sheet", got, "0.05")
}

func TestCostPerBaseUnit_SameUnitIgnoresFactor(t *testing.T) {
	// Purchase unit == base unit: the factor must not apply.
	got := CostPerBaseUnit(UnitKilogram, UnitKilogram, dec(t, "4"), dec(t, "10.00"), dec(t, "1000"))
	equalDecimal(t, "cost per kg", got, "2.5")
}

func TestCostPerBaseUnit_ZeroDenominator(t *testing.T) {
	for name, factor := range map[string]string{"zero": "0", "negative": "-2"} {
		got := CostPerBaseUnit(UnitBox, UnitPiece, dec(t, "1"), dec(t, "9.99"), dec(t, factor))
		if !got.IsZero() {
			t.Fatalf("%s factor: cost = %s, want 0", name, got)
		}
	}
	got := CostPerBaseUnit(UnitPiece, UnitPiece, dec(t, "0"), dec(t, "9.99"), dec(t, "1"))
	if !got.IsZero() {
		t.Fatalf("zero purchase quantity: cost = %s, want 0", got)
	}
}

func TestCostPerBaseUnit_QuantizesToFourPlaces(t *testing.T) {
	got := CostPerBaseUnit(UnitBox, UnitPiece, dec(t, "1"), dec(t, "10.00"), dec(t, "3"))
	equalDecimal(t, "cost per piece", got, "3.3333")
}

func TestReamToSheets(t *testing.T) {
	equalDecimal(t, "sheets", ReamToSheets(dec(t, "2"), DefaultSheetsPerReam), "1000")
	equalDecimal(t, "sheets custom ream", ReamToSheets(dec(t, "3"), 250), "750")
}

func TestRollToArea(t *testing.T) {
	// 60 cm wide, 50 m long, 2 rolls → 0.6 × 50 × 2 = 60 m².
	equalDecimal(t, "area", RollToArea(dec(t, "60"), dec(t, "50"), dec(t, "2")), "60")
}

func TestRollToLength(t *testing.T) {
	equalDecimal(t, "length", RollToLength(dec(t, "50"), dec(t, "3")), "150")
}

func TestSheetsForPages(t *testing.T) {
	cases := []struct {
		name          string
		pages, imposd int64
		duplex        bool
		want          int64
	}{
		{"simplex exact", 100, 2, false, 50},
		{"simplex remainder", 101, 2, false, 51},
		{"duplex halves sheets", 100, 2, true, 25},
		{"single page", 1, 8, true, 1},
		{"zero pages", 0, 2, false, 0},
	}
	for _, tc := range cases {
		got, err := SheetsForPages(tc.pages, tc.imposd, tc.duplex)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: sheets = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSheetsForPages_RejectsNonPositiveCapacity(t *testing.T) {
	if _, err := SheetsForPages(10, 0, false); err == nil {
		t.Fatal("expected error for zero items per sheet")
	}
	if _, err := SheetsForPages(10, -4, true); err == nil {
		t.Fatal("expected error for negative items per sheet")
	}
}
