package params

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

func TestLaborRateTable_DefaultCalendar(t *testing.T) {
	// 3000.00 over 22 days × 8 h.
	table := DefaultLaborRateTable(1)
	p := DefaultGlobalParams(1)

	equalDecimal(t, "monthly hours", table.MonthlyHours(), "176")
	equalDecimal(t, "labor rate per hour", table.LaborRatePerHour(), "17.0455")
	equalDecimal(t, "fixed rate per hour", table.FixedRatePerHour(p), "0")
	equalDecimal(t, "blended per hour", table.BlendedRatePerHour(p), "17.0455")
	equalDecimal(t, "blended per minute", table.BlendedRatePerMinute(p), "0.2841")
}

func TestLaborRateTable_FixedCostsBlendIn(t *testing.T) {
	table := LaborRateTable{
		DesiredMonthlyIncome: dec(t, "3000.00"),
		WorkingDaysPerMonth:  20,
		HoursPerDay:          dec(t, "5.00"),
	}
	p := GlobalParams{
		EnergyMonthly:     dec(t, "120.00"),
		InternetMonthly:   dec(t, "80.00"),
		OtherFixedMonthly: dec(t, "100.00"),
	}

	equalDecimal(t, "monthly hours", table.MonthlyHours(), "100")
	equalDecimal(t, "labor rate per hour", table.LaborRatePerHour(), "30")
	equalDecimal(t, "fixed rate per hour", table.FixedRatePerHour(p), "3")
	equalDecimal(t, "blended per hour", table.BlendedRatePerHour(p), "33")
	equalDecimal(t, "blended per minute", table.BlendedRatePerMinute(p), "0.55")
}

func TestLaborRateTable_ZeroHoursGuard(t *testing.T) {
	// Zero working hours must not divide by zero; the documented degenerate
	// policy divides by 1 instead.
	table := LaborRateTable{
		DesiredMonthlyIncome: dec(t, "2500.00"),
		WorkingDaysPerMonth:  0,
		HoursPerDay:          dec(t, "8.00"),
	}
	p := GlobalParams{EnergyMonthly: dec(t, "50.00")}

	equalDecimal(t, "labor rate per hour", table.LaborRatePerHour(), "2500")
	equalDecimal(t, "fixed rate per hour", table.FixedRatePerHour(p), "50")
}

func TestDefaultGlobalParams(t *testing.T) {
	p := DefaultGlobalParams(7)
	if p.OrgID != 7 {
		t.Fatalf("org id = %d, want 7", p.OrgID)
	}
	equalDecimal(t, "default margin", p.DefaultMarginPercent, "30")
	equalDecimal(t, "default surcharge", p.DefaultSurchargePercent, "0")
	equalDecimal(t, "tax", p.TaxPercent, "0")
	equalDecimal(t, "card fee", p.CardFeePercent, "0")
	equalDecimal(t, "round to", p.RoundTo, "1.00")
	if !p.IncludeTaxesInBase {
		t.Fatal("include taxes in base should default to true")
	}
}
